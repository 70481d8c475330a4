package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// archiveWritable checks that the recording archive accepts writes.
func archiveWritable(opts *models.Options) bool {
	dir := "data/recordings"
	if opts != nil && opts.ArchiveDir != "" {
		dir = opts.ArchiveDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

// getHealthFunc reports the health of the service and its backends.
// The database and the recording archive are mandatory; the optional AI
// backends are reported but never fail the check.
func getHealthFunc(ctx context.Context, input *models.GetHealthRequest) (*models.GetHealthResponse, error) {
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := GetServices(ctx)
	if err != nil {
		return nil, err
	}

	dbHealthy := pool != nil && pool.Ping(ctx) == nil
	archiveHealthy := archiveWritable(svc.Options)

	response := &models.GetHealthResponse{}
	response.Body.Services = map[string]bool{
		"database":      dbHealthy,
		"archive":       archiveHealthy,
		"transcription": svc.Recognizer != nil,
		"translation":   svc.Translator != nil,
		"embeddings":    svc.Embedder != nil,
	}
	response.Body.Version = Version
	if dbHealthy && archiveHealthy {
		response.Status = http.StatusOK
		response.Body.Status = "healthy"
	} else {
		response.Status = http.StatusServiceUnavailable
		response.Body.Status = "unhealthy"
	}
	return response, nil
}

// getStatsFunc reports corpus-wide collection statistics.
func getStatsFunc(ctx context.Context, input *models.GetStatsRequest) (*models.GetStatsResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the queries
	queries := database.New(pool)
	totals, err := queries.GetCorpusStats(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get corpus statistics. %v", err))
	}
	perLanguage, err := queries.GetPerLanguageCounts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get per-language counts. %v", err))
	}

	// Build the response
	response := &models.GetStatsResponse{}
	response.Body.Languages = int(totals.Languages)
	response.Body.Contributors = int(totals.Contributors)
	response.Body.Recordings = int(totals.Recordings)
	response.Body.Transcriptions = int(totals.Transcriptions)
	response.Body.Phrases = int(totals.Phrases)
	response.Body.Lessons = int(totals.Lessons)
	response.Body.PerLanguage = []models.LanguageCount{}
	for _, c := range perLanguage {
		response.Body.PerLanguage = append(response.Body.PerLanguage, models.LanguageCount{
			Code:       c.Code,
			Recordings: int(c.Recordings),
			Phrases:    int(c.Phrases),
		})
	}

	return response, nil
}

// resetDbFunc empties all tables and resets all serial counters.
// Archived audio files on disk are left in place.
func resetDbFunc(ctx context.Context, input *models.ResetDbRequest) (*models.ResetDbResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the queries
	queries := database.New(pool)
	if err := queries.DeleteAllRecords(ctx); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to empty the database. %v", err))
	}
	if err := queries.ResetAllSerials(ctx); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to reset serial counters. %v", err))
	}

	// Build the response
	response := &models.ResetDbResponse{}
	return response, nil
}

// RegisterAdminRoutes registers the health and admin routes with the API
func RegisterAdminRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	getHealthOp := huma.Operation{
		OperationID: "getHealth",
		Method:      http.MethodGet,
		Path:        "/v1/health",
		Summary:     "Get the health of the service",
		Tags:        []string{"admin"},
	}
	getStatsOp := huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/v1/admin/stats",
		Summary:     "Get corpus-wide collection statistics",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin"},
	}
	resetDbOp := huma.Operation{
		OperationID:   "resetDb",
		Method:        http.MethodPost,
		Path:          "/v1/admin/footgun",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Empty the database (use with care)",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin"},
	}

	// Register the routes with middleware
	huma.Register(api, getHealthOp, addPoolToContext(pool, addServicesToContext(svc, getHealthFunc)))
	huma.Register(api, getStatsOp, addPoolToContext(pool, getStatsFunc))
	huma.Register(api, resetDbOp, addPoolToContext(pool, resetDbFunc))
	return nil
}
