package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// languageFromRow converts a database row into the API model.
func languageFromRow(l database.Language) models.Language {
	lang := models.Language{
		Code:         l.Code,
		Name:         l.Name,
		Family:       l.Family.String,
		Script:       l.Script.String,
		Endangerment: l.Endangerment,
		Regions:      l.Regions,
		Metadata:     l.Metadata,
	}
	if l.Speakers.Valid {
		lang.Speakers = int(l.Speakers.Int32)
	}
	return lang
}

// putLanguageFunc creates or updates a language
func putLanguageFunc(ctx context.Context, input *models.PutLanguageRequest) (*models.UploadLanguageResponse, error) {
	if input.Code != input.Body.Code {
		return nil, huma.Error400BadRequest(fmt.Sprintf("language code in URL (%s) does not match language code in body (%s).", input.Code, input.Body.Code))
	}

	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	svc, err := GetServices(ctx)
	if err != nil {
		return nil, err
	}

	// Validate metadata against the deployment's schema, if one is set
	if err := ValidateLanguageMetadata(input.Body.Metadata, svc.MetadataSchema); err != nil {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("invalid language metadata. %v", err))
	}

	// Run the query
	queries := database.New(pool)
	l, err := queries.UpsertLanguage(ctx, database.UpsertLanguageParams{
		Code:         input.Code,
		Name:         input.Body.Name,
		Family:       pgtype.Text{String: input.Body.Family, Valid: input.Body.Family != ""},
		Script:       pgtype.Text{String: input.Body.Script, Valid: input.Body.Script != ""},
		Endangerment: input.Body.Endangerment,
		Regions:      input.Body.Regions,
		Speakers:     pgtype.Int4{Int32: int32(input.Body.Speakers), Valid: input.Body.Speakers > 0},
		Metadata:     input.Body.Metadata,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to upload language. %v", err))
	}

	// Build the response
	response := &models.UploadLanguageResponse{}
	response.Body.Code = l.Code
	return response, nil
}

// Create a language (without a code being present in the URL)
func postLanguageFunc(ctx context.Context, input *models.PostLanguageRequest) (*models.UploadLanguageResponse, error) {
	return putLanguageFunc(ctx, &models.PutLanguageRequest{Code: input.Body.Code, Body: input.Body})
}

// Get all languages
func getLanguagesFunc(ctx context.Context, input *models.GetLanguagesRequest) (*models.GetLanguagesResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the query
	queries := database.New(pool)
	allLanguages, err := queries.GetLanguages(ctx, database.GetLanguagesParams{Limit: int32(input.Limit), Offset: int32(input.Offset)})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get list of languages. %v", err))
	}

	// Build the response
	response := &models.GetLanguagesResponse{}
	response.Body.Languages = []models.Language{}
	for _, l := range allLanguages {
		response.Body.Languages = append(response.Body.Languages, languageFromRow(l))
	}

	return response, nil
}

// Get a specific language with its collection statistics
func getLanguageFunc(ctx context.Context, input *models.GetLanguageRequest) (*models.GetLanguageResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the queries
	queries := database.New(pool)
	l, err := queries.RetrieveLanguage(ctx, input.Code)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}
	stats, err := queries.GetLanguageStats(ctx, input.Code)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get statistics for language %s. %v", input.Code, err))
	}

	// Build the response
	response := &models.GetLanguageResponse{}
	response.Body.Language = languageFromRow(l)
	response.Body.Stats = models.LanguageStats{
		Recordings:     int(stats.Recordings),
		Transcriptions: int(stats.Transcriptions),
		Phrases:        int(stats.Phrases),
		Lessons:        int(stats.Lessons),
	}

	return response, nil
}

// Delete a specific language
func deleteLanguageFunc(ctx context.Context, input *models.DeleteLanguageRequest) (*models.DeleteLanguageResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check if language exists
	queries := database.New(pool)
	_, err = queries.RetrieveLanguage(ctx, input.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found", input.Code))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if language %s exists before deleting. %v", input.Code, err))
	}

	// Run the query
	err = queries.DeleteLanguage(ctx, input.Code)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to delete language %s. %v", input.Code, err))
	}

	// Build the response
	response := &models.DeleteLanguageResponse{}
	return response, nil
}

// RegisterLanguagesRoutes registers all the language registry routes with the API
func RegisterLanguagesRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	putLanguageOp := huma.Operation{
		OperationID:   "putLanguage",
		Method:        http.MethodPut,
		Path:          "/v1/languages/{code}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create or update a language",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "languages"},
	}
	postLanguageOp := huma.Operation{
		OperationID:   "postLanguage",
		Method:        http.MethodPost,
		Path:          "/v1/languages",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a language",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "languages"},
	}
	getLanguagesOp := huma.Operation{
		OperationID: "getLanguages",
		Method:      http.MethodGet,
		Path:        "/v1/languages",
		Summary:     "Get information about all languages",
		Tags:        []string{"languages"},
	}
	getLanguageOp := huma.Operation{
		OperationID: "getLanguage",
		Method:      http.MethodGet,
		Path:        "/v1/languages/{code}",
		Summary:     "Get a language with its collection statistics",
		Tags:        []string{"languages"},
	}
	deleteLanguageOp := huma.Operation{
		OperationID:   "deleteLanguage",
		Method:        http.MethodDelete,
		Path:          "/v1/languages/{code}",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete a language and all its material",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "languages"},
	}

	// Register the routes with middleware
	huma.Register(api, putLanguageOp, addPoolToContext(pool, addServicesToContext(svc, putLanguageFunc)))
	huma.Register(api, postLanguageOp, addPoolToContext(pool, addServicesToContext(svc, postLanguageFunc)))
	huma.Register(api, getLanguagesOp, addPoolToContext(pool, getLanguagesFunc))
	huma.Register(api, getLanguageOp, addPoolToContext(pool, getLanguageFunc))
	huma.Register(api, deleteLanguageOp, addPoolToContext(pool, deleteLanguageFunc))
	return nil
}
