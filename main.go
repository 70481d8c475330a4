package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lipipala/lipipala/internal/auth"
	"github.com/lipipala/lipipala/internal/crypto"
	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/handlers"
	"github.com/lipipala/lipipala/internal/models"
	"github.com/lipipala/lipipala/internal/speech"
	"github.com/lipipala/lipipala/internal/translate"
	"github.com/lipipala/lipipala/internal/worker"

	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"

	huma "github.com/danielgtaylor/huma/v2"
)

func main() {
	// Load environment variables from a .env file, if one exists.
	// Flags and real environment variables still win.
	_ = godotenv.Load()

	// Create a CLI app
	cli := humacli.New(func(hooks humacli.Hooks, options *models.Options) {

		println()
		println("=== Starting LipiPala language preservation service ...")
		fmt.Printf("    Options are debug:%v host:%v port:%v dbhost:%s dbname:%s engine:%s\n",
			options.Debug, options.Host, options.Port, options.DBHost, options.DBName, options.SpeechEngine)

		// Initialize the database
		pool, err := database.InitDB(options)
		if err != nil {
			fmt.Printf("    Unable to connect to database: %v\n", err)
			os.Exit(1)
		}

		// Define standard key generator (for API keys)
		keyGen := handlers.StandardKeyGen{}

		// Set up the speech recognition engine
		recognizer, err := speech.New(speech.Config{
			Engine: speech.Engine(options.SpeechEngine),
			APIKey: options.OpenAIKey,
		})
		if err != nil {
			fmt.Printf("    Unable to set up speech recognition: %v\n", err)
			os.Exit(1)
		}
		if recognizer == nil {
			fmt.Print("    Speech recognition is disabled.\n")
		}

		// Set up translation and embeddings
		var translator translate.Translator
		var embedder translate.Embedder
		if options.OpenAIKey != "" {
			ai, err := translate.NewOpenAI(translate.Config{
				APIKey:         options.OpenAIKey,
				ChatModel:      options.TranslateModel,
				EmbeddingModel: options.EmbeddingModel,
				Dimensions:     options.EmbeddingDim,
			})
			if err != nil {
				fmt.Printf("    Unable to set up translation: %v\n", err)
				os.Exit(1)
			}
			translator = ai
			embedder = ai
		} else {
			fmt.Print("    Translation and embeddings are disabled (no OpenAI key).\n")
		}

		// Set up the encryption key for contributor contact details
		contactKey, err := crypto.GetEncryptionKeyFromEnv()
		if err != nil {
			contactKey = nil
			fmt.Print("    Contact encryption is disabled (no encryption key).\n")
		}

		// Load the metadata schema, if one is configured
		metadataSchema := ""
		if options.MetadataSchemaFile != "" {
			schemaBytes, err := os.ReadFile(options.MetadataSchemaFile)
			if err != nil {
				fmt.Printf("    Unable to read metadata schema %s: %v\n", options.MetadataSchemaFile, err)
				os.Exit(1)
			}
			metadataSchema = string(schemaBytes)
		}

		// Set up the background transcription worker
		var jobs *worker.Transcriber
		if recognizer != nil {
			jobs, err = worker.NewTranscriber(database.New(pool), recognizer, options.QueueSize)
			if err != nil {
				fmt.Printf("    Unable to set up transcription worker: %v\n", err)
				os.Exit(1)
			}
		}

		svc := &handlers.Services{
			Recognizer:     recognizer,
			Translator:     translator,
			Embedder:       embedder,
			Jobs:           jobs,
			ContactKey:     contactKey,
			MetadataSchema: metadataSchema,
			Options:        options,
		}

		// Create a new router & API
		config := huma.DefaultConfig("LipiPala Language Preservation API", handlers.Version)
		config.Components.SecuritySchemes = auth.Config
		router := http.NewServeMux()
		api := humago.New(router, config)
		api.UseMiddleware(auth.APIKeyAdminAuth(api, options))
		api.UseMiddleware(auth.APIKeyContributorAuth(api, pool, options))
		api.UseMiddleware(auth.APIKeyReaderAuth(api, pool, options))
		api.UseMiddleware(auth.AuthTermination(api))

		// Add routes to the API
		err = handlers.AddRoutes(pool, keyGen, svc, api)
		if err != nil {
			fmt.Printf("    Unable to add routes: %v\n", err)
			os.Exit(1)
		}

		// Create the HTTP server
		server := &http.Server{
			Addr:    fmt.Sprintf("%s:%d", options.Host, options.Port),
			Handler: router,
		}

		// Start server
		hooks.OnStart(func() {
			if jobs != nil {
				jobs.Start()
			}
			fmt.Printf("=== Starting API server on port %d...\n\n", options.Port)
			err := server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				fmt.Printf("listen error: %s\n", err)
			} else {
				fmt.Printf("    API server on port %d stopped.\n", options.Port)
			}
		})

		// Gracefully shutdown server
		hooks.OnStop(func() {
			fmt.Printf("\n=== Shutting down API server on port %d...\n", options.Port)

			// Create a context with a timeout for the shutdown process
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Attempt to gracefully shut down the server
			if err := server.Shutdown(ctx); err != nil {
				fmt.Printf("Shutdown error: %v\n", err)
			}

			// Drain the transcription worker before the pool goes away
			if jobs != nil {
				jobs.Stop()
			}
			if recognizer != nil {
				recognizer.Close()
			}

			// Close the database pool
			activeConns := pool.Stat().TotalConns()
			fmt.Printf("    Active connections before shutdown: %d\n", activeConns)

			pool.Close()
			fmt.Println("    Database pool successfully closed.")
			fmt.Print("=== LipiPala language preservation service stopped.\n\n")
		})
	})

	// Run the CLI. When passed no commands, it starts the server.
	cli.Run()
}
