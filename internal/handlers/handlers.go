package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/crypto"
	"github.com/lipipala/lipipala/internal/models"
	"github.com/lipipala/lipipala/internal/speech"
	"github.com/lipipala/lipipala/internal/translate"
	"github.com/lipipala/lipipala/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"

	huma "github.com/danielgtaylor/huma/v2"
)

// Version of the service, reported by the health endpoint.
const Version = "0.1.0"

type contextKey string

// Context keys
const (
	PoolKey     = contextKey("dbPool")
	KeyGenKey   = contextKey("keyGen")
	ServicesKey = contextKey("services")
)

// Error responses
var (
	ErrPoolNotFound     = errors.New("database connection pool not found in context")
	ErrKeyGenNotFound   = errors.New("key generator not found in context")
	ErrServicesNotFound = errors.New("services not found in context")
)

// Services bundles the non-database dependencies of the handlers.
// Recognizer, Translator, Embedder and Jobs may be nil when the matching
// backend is not configured; handlers answer 503 for operations that
// need a missing one.
type Services struct {
	Recognizer     speech.Recognizer
	Translator     translate.Translator
	Embedder       translate.Embedder
	Jobs           *worker.Transcriber
	ContactKey     *crypto.EncryptionKey
	MetadataSchema string
	Options        *models.Options
}

// The type definitions and functions that follow are used to
// mock the crypto/rand.Read function for testing purposes.
type RandomKeyGenerator interface {
	RandomKey(len int) (key string, err error)
}

type StandardKeyGen struct{}

func (s StandardKeyGen) RandomKey(len int) (string, error) {
	b := make([]byte, len)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// AddRoutes adds all the routes to the API
func AddRoutes(pool *pgxpool.Pool, keyGen RandomKeyGenerator, svc *Services, api huma.API) error {
	err := RegisterLanguagesRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Languages routes: %v\n", err)
		return err
	}
	err = RegisterContributorsRoutes(pool, keyGen, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Contributors routes: %v\n", err)
		return err
	}
	err = RegisterRecordingsRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Recordings routes: %v\n", err)
		return err
	}
	err = RegisterTranscriptionsRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Transcriptions routes: %v\n", err)
		return err
	}
	err = RegisterPhrasesRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Phrases routes: %v\n", err)
		return err
	}
	err = RegisterSimilarsRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Similars routes: %v\n", err)
		return err
	}
	err = RegisterLessonsRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Lessons routes: %v\n", err)
		return err
	}
	err = RegisterAdminRoutes(pool, svc, api)
	if err != nil {
		fmt.Printf("    Unable to register Admin routes: %v\n", err)
		return err
	}
	return nil
}

// Middleware to add the connection pool to the context
func addPoolToContext[I any, O any](pool *pgxpool.Pool, next func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		if pool == nil {
			return nil, fmt.Errorf("provided pool is nil")
		}
		ctx = context.WithValue(ctx, PoolKey, pool)
		return next(ctx, input)
	}
}

// Middleware to add the key generator to the context
func addKeyGenToContext[I any, O any](keyGen RandomKeyGenerator, next func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		if keyGen == nil {
			return nil, fmt.Errorf("provided keyGen is nil")
		}
		ctx = context.WithValue(ctx, KeyGenKey, keyGen)
		return next(ctx, input)
	}
}

// Middleware to add the service bundle to the context
func addServicesToContext[I any, O any](svc *Services, next func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		if svc == nil {
			return nil, fmt.Errorf("provided services are nil")
		}
		ctx = context.WithValue(ctx, ServicesKey, svc)
		return next(ctx, input)
	}
}

// Get the database connection pool from the context
// (exported helper function so that blackbox testing can access it)
func GetDBPool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, ok := ctx.Value(PoolKey).(*pgxpool.Pool)
	if !ok {
		return nil, huma.NewError(http.StatusInternalServerError, ErrPoolNotFound.Error())
	}
	return pool, nil
}

// Get the key generator from the context
// (exported helper function so that blackbox testing can access it)
func GetKeyGen(ctx context.Context) (RandomKeyGenerator, error) {
	keyGen, ok := ctx.Value(KeyGenKey).(RandomKeyGenerator)
	if !ok {
		return nil, huma.NewError(http.StatusInternalServerError, ErrKeyGenNotFound.Error())
	}
	return keyGen, nil
}

// Get the service bundle from the context
// (exported helper function so that blackbox testing can access it)
func GetServices(ctx context.Context) (*Services, error) {
	svc, ok := ctx.Value(ServicesKey).(*Services)
	if !ok {
		return nil, huma.NewError(http.StatusInternalServerError, ErrServicesNotFound.Error())
	}
	return svc, nil
}
