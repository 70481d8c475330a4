package models

// Options for the CLI.
type Options struct {
	Debug      bool   `doc:"Enable debug logging" short:"d" default:"false"`
	Host       string `doc:"Hostname to listen on" default:"localhost"`
	Port       int    `doc:"Port to listen on" short:"p" default:"8080"`
	DBHost     string `doc:"Database hostname" default:"localhost"`
	DBPort     int    `doc:"Database port" default:"5432"`
	DBUser     string `doc:"Database username" default:"postgres"`
	DBPassword string `doc:"Database password" default:"password"`
	DBName     string `doc:"Database name" default:"postgres"`
	AdminKey   string `doc:"Admin API key"`

	ArchiveDir     string `doc:"Directory where uploaded recordings are archived" default:"data/recordings"`
	MaxUploadBytes int64  `doc:"Maximum accepted size of an uploaded recording in bytes" default:"67108864"`

	SpeechEngine   string `doc:"Speech recognition engine (whisper-api or none)" default:"whisper-api"`
	OpenAIKey      string `doc:"OpenAI API key for transcription, translation and embeddings"`
	TranslateModel string `doc:"Chat model used for machine translation" default:"gpt-4o-mini"`
	EmbeddingModel string `doc:"Embedding model used for phrase similarity" default:"text-embedding-3-small"`
	EmbeddingDim   int    `doc:"Dimensionality of phrase embeddings (must match the phrases table)" default:"1536"`

	MetadataSchemaFile string `doc:"Path to a JSON schema that language metadata must validate against"`
	QueueSize          int    `doc:"Capacity of the background transcription queue" default:"64"`
}
