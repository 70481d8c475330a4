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
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// similarsFromRows converts similarity rows into the API model.
func similarsFromRows(rows []database.SimilarPhrasesRow) []models.SimilarPhrase {
	similars := []models.SimilarPhrase{}
	for _, r := range rows {
		similars = append(similars, models.SimilarPhrase{
			Phrase:   phraseFromRow(r.Phrase),
			Distance: r.Distance,
		})
	}
	return similars
}

// postSimilarFunc finds the corpus phrases nearest to a free-text query.
func postSimilarFunc(ctx context.Context, input *models.PostSimilarRequest) (*models.SimilarResponse, error) {
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
	if svc.Embedder == nil {
		return nil, huma.Error503ServiceUnavailable("phrase embeddings are not configured on this deployment")
	}

	// Check that the language exists
	queries := database.New(pool)
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}

	// Embed the query text
	vec, err := svc.Embedder.Embed(ctx, input.Body.Text)
	if err != nil {
		return nil, huma.Error502BadGateway(fmt.Sprintf("unable to embed query text. %v", err))
	}

	// Run the query
	rows, err := queries.SimilarPhrasesByVector(ctx, database.SimilarPhrasesByVectorParams{
		LanguageCode: input.Code,
		Embedding:    pgvector.NewVector(vec),
		Count:        int32(input.Body.Count),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to search for similar phrases. %v", err))
	}

	// Build the response
	response := &models.SimilarResponse{}
	response.Body.Similars = similarsFromRows(rows)
	return response, nil
}

// getSimilarFunc finds the corpus phrases nearest to a stored phrase.
func getSimilarFunc(ctx context.Context, input *models.GetSimilarRequest) (*models.SimilarResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that the phrase exists in this language
	queries := database.New(pool)
	existing, err := queries.RetrievePhrase(ctx, input.PhraseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("phrase %d not found", input.PhraseID))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if phrase %d exists. %v", input.PhraseID, err))
	}
	if existing.LanguageCode != input.Code {
		return nil, huma.Error404NotFound(fmt.Sprintf("phrase %d not found for language %s", input.PhraseID, input.Code))
	}

	// Run the query
	rows, err := queries.SimilarPhrasesByID(ctx, database.SimilarPhrasesByIDParams{
		LanguageCode: input.Code,
		PhraseID:     input.PhraseID,
		Count:        int32(input.Count),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to search for phrases similar to %d. %v", input.PhraseID, err))
	}

	// Build the response
	response := &models.SimilarResponse{}
	response.Body.Similars = similarsFromRows(rows)
	return response, nil
}

// RegisterSimilarsRoutes registers all the phrase similarity routes with the API
func RegisterSimilarsRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	postSimilarOp := huma.Operation{
		OperationID: "postSimilar",
		Method:      http.MethodPost,
		Path:        "/v1/similars/{code}",
		Summary:     "Find corpus phrases similar to a free-text query",
		Tags:        []string{"similars"},
	}
	getSimilarOp := huma.Operation{
		OperationID: "getSimilar",
		Method:      http.MethodGet,
		Path:        "/v1/similars/{code}/{phrase_id}",
		Summary:     "Find corpus phrases similar to a stored phrase",
		Tags:        []string{"similars"},
	}

	// Register the routes with middleware
	huma.Register(api, postSimilarOp, addPoolToContext(pool, addServicesToContext(svc, postSimilarFunc)))
	huma.Register(api, getSimilarOp, addPoolToContext(pool, getSimilarFunc))
	return nil
}
