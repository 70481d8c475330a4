package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"
	"github.com/lipipala/lipipala/internal/translate"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// phraseFromRow converts a database row into the API model.
func phraseFromRow(p database.Phrase) models.Phrase {
	phrase := models.Phrase{
		PhraseID:     p.PhraseID,
		LanguageCode: p.LanguageCode,
		Text:         p.Text,
		Translation:  p.Translation,
		Locale:       p.Locale,
		Notes:        p.Notes.String,
		Reviewed:     p.Reviewed,
		Origin:       p.Origin,
	}
	if p.CreatedAt.Valid {
		phrase.CreatedAt = p.CreatedAt.Time.UTC()
	}
	return phrase
}

// embedPhrase computes the embedding of a source text if an embedder is
// configured. Phrases without embeddings are stored all the same; they just
// stay invisible to similarity search.
func embedPhrase(ctx context.Context, svc *Services, text string) *pgvector.Vector {
	if svc.Embedder == nil {
		return nil
	}
	vec, err := svc.Embedder.Embed(ctx, text)
	if err != nil {
		fmt.Printf("    Unable to embed phrase, storing without embedding: %v\n", err)
		return nil
	}
	v := pgvector.NewVector(vec)
	return &v
}

// insertPhrase is the shared path of postPhraseFunc and postTranslateFunc.
func insertPhrase(ctx context.Context, queries *database.Queries, svc *Services, code, text, translation, locale, notes, origin string) (database.Phrase, error) {
	if locale == "" {
		locale = "en"
	}
	return queries.InsertPhrase(ctx, database.InsertPhraseParams{
		LanguageCode: code,
		Text:         text,
		Translation:  translation,
		Locale:       locale,
		Notes:        pgtype.Text{String: notes, Valid: notes != ""},
		Origin:       origin,
		Embedding:    embedPhrase(ctx, svc, text),
	})
}

// Add a phrase pair to the parallel corpus
func postPhraseFunc(ctx context.Context, input *models.PostPhraseRequest) (*models.PostPhraseResponse, error) {
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

	// Check that the language exists
	queries := database.New(pool)
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}

	// Run the query
	p, err := insertPhrase(ctx, queries, svc, input.Code, input.Body.Text, input.Body.Translation, input.Body.Locale, input.Body.Notes, "human")
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to store phrase. %v", err))
	}

	// Build the response
	response := &models.PostPhraseResponse{}
	response.Body.Phrase = phraseFromRow(p)
	return response, nil
}

// Get the phrases of a language, optionally filtered by review status
func getPhrasesFunc(ctx context.Context, input *models.GetPhrasesRequest) (*models.GetPhrasesResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that the language exists
	queries := database.New(pool)
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}

	// Translate the reviewed filter into a nullable boolean
	reviewed := pgtype.Bool{}
	switch input.Reviewed {
	case "true":
		reviewed = pgtype.Bool{Bool: true, Valid: true}
	case "false":
		reviewed = pgtype.Bool{Bool: false, Valid: true}
	}

	// Run the query
	allPhrases, err := queries.GetPhrasesByLanguage(ctx, database.GetPhrasesByLanguageParams{
		LanguageCode: input.Code,
		Reviewed:     reviewed,
		Limit:        int32(input.Limit),
		Offset:       int32(input.Offset),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get phrases for language %s. %v", input.Code, err))
	}

	// Build the response
	response := &models.GetPhrasesResponse{}
	response.Body.Phrases = models.Phrases{}
	for _, p := range allPhrases {
		response.Body.Phrases = append(response.Body.Phrases, phraseFromRow(p))
	}

	return response, nil
}

// Mark a phrase pair as reviewed
func reviewPhraseFunc(ctx context.Context, input *models.ReviewPhraseRequest) (*models.ReviewPhraseResponse, error) {
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
	if err != nil || existing.LanguageCode != input.Code {
		return nil, huma.Error404NotFound(fmt.Sprintf("phrase %d not found for language %s", input.PhraseID, input.Code))
	}

	// Run the query
	p, err := queries.ReviewPhrase(ctx, input.PhraseID)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to mark phrase %d as reviewed. %v", input.PhraseID, err))
	}

	// Build the response
	response := &models.ReviewPhraseResponse{}
	response.Body.Phrase = phraseFromRow(p)
	return response, nil
}

// Delete a phrase pair
func deletePhraseFunc(ctx context.Context, input *models.DeletePhraseRequest) (*models.DeletePhraseResponse, error) {
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
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if phrase %d exists before deleting. %v", input.PhraseID, err))
	}
	if existing.LanguageCode != input.Code {
		return nil, huma.Error404NotFound(fmt.Sprintf("phrase %d not found for language %s", input.PhraseID, input.Code))
	}

	// Run the query
	if err := queries.DeletePhrase(ctx, input.PhraseID); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to delete phrase %d. %v", input.PhraseID, err))
	}

	// Build the response
	response := &models.DeletePhraseResponse{}
	return response, nil
}

// glossaryLimit caps the number of reviewed pairs pinned into a prompt.
const glossaryLimit = 50

// postTranslateFunc machine-translates text between a registered language
// and a contact locale. Reviewed corpus pairs are pinned into the prompt so
// community-approved renderings win over the model's own choices.
func postTranslateFunc(ctx context.Context, input *models.PostTranslateRequest) (*models.PostTranslateResponse, error) {
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
	if svc.Translator == nil {
		return nil, huma.Error503ServiceUnavailable("machine translation is not configured on this deployment")
	}

	// One side of the pair must be a registered language; the glossary is
	// keyed on it.
	queries := database.New(pool)
	code := input.Body.SourceCode
	locale := input.Body.TargetCode
	lang, err := queries.RetrieveLanguage(ctx, code)
	if err != nil {
		code = input.Body.TargetCode
		locale = input.Body.SourceCode
		lang, err = queries.RetrieveLanguage(ctx, code)
		if err != nil {
			return nil, huma.Error404NotFound(fmt.Sprintf("neither %s nor %s is a registered language", input.Body.SourceCode, input.Body.TargetCode))
		}
	}

	// Collect reviewed pairs as a glossary
	glossaryRows, err := queries.GetGlossary(ctx, database.GetGlossaryParams{
		LanguageCode: code,
		Locale:       locale,
		Limit:        glossaryLimit,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to build glossary for language %s. %v", code, err))
	}
	glossary := make([]translate.GlossaryTerm, 0, len(glossaryRows))
	for _, g := range glossaryRows {
		term := translate.GlossaryTerm{Term: g.Text, Translation: g.Translation}
		if code == input.Body.TargetCode {
			term = translate.GlossaryTerm{Term: g.Translation, Translation: g.Text}
		}
		glossary = append(glossary, term)
	}

	sourceName := input.Body.SourceCode
	targetName := input.Body.TargetCode
	if code == input.Body.SourceCode {
		sourceName = lang.Name
	} else {
		targetName = lang.Name
	}

	// Run the translator
	translation, err := svc.Translator.Translate(ctx, translate.Request{
		Text:           input.Body.Text,
		SourceLanguage: sourceName,
		TargetLanguage: targetName,
		Glossary:       glossary,
	})
	if err != nil {
		return nil, huma.Error502BadGateway(fmt.Sprintf("unable to translate text. %v", err))
	}

	// Build the response
	response := &models.PostTranslateResponse{}
	response.Body.Translation = translation

	// Store the pair as an unreviewed machine translation if requested.
	// Only translations out of the registered language enter the corpus.
	if input.Body.Store && code == input.Body.SourceCode {
		p, err := insertPhrase(ctx, queries, svc, code, input.Body.Text, translation, locale, "", "machine")
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to store machine translation. %v", err))
		}
		response.Body.PhraseID = p.PhraseID
	}

	return response, nil
}

// RegisterPhrasesRoutes registers all the parallel corpus routes with the API
func RegisterPhrasesRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	postPhraseOp := huma.Operation{
		OperationID:   "postPhrase",
		Method:        http.MethodPost,
		Path:          "/v1/phrases/{code}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Add a phrase pair to the parallel corpus",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"phrases"},
	}
	getPhrasesOp := huma.Operation{
		OperationID: "getPhrases",
		Method:      http.MethodGet,
		Path:        "/v1/phrases/{code}",
		Summary:     "Get the phrases of a language",
		Tags:        []string{"phrases"},
	}
	reviewPhraseOp := huma.Operation{
		OperationID: "reviewPhrase",
		Method:      http.MethodPost,
		Path:        "/v1/phrases/{code}/{phrase_id}/review",
		Summary:     "Mark a phrase pair as reviewed",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"phrases"},
	}
	deletePhraseOp := huma.Operation{
		OperationID:   "deletePhrase",
		Method:        http.MethodDelete,
		Path:          "/v1/phrases/{code}/{phrase_id}",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete a phrase pair",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "phrases"},
	}
	postTranslateOp := huma.Operation{
		OperationID: "postTranslate",
		Method:      http.MethodPost,
		Path:        "/v1/translate",
		Summary:     "Machine-translate text",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"phrases", "translate"},
	}

	// Register the routes with middleware
	huma.Register(api, postPhraseOp, addPoolToContext(pool, addServicesToContext(svc, postPhraseFunc)))
	huma.Register(api, getPhrasesOp, addPoolToContext(pool, getPhrasesFunc))
	huma.Register(api, reviewPhraseOp, addPoolToContext(pool, reviewPhraseFunc))
	huma.Register(api, deletePhraseOp, addPoolToContext(pool, deletePhraseFunc))
	huma.Register(api, postTranslateOp, addPoolToContext(pool, addServicesToContext(svc, postTranslateFunc)))
	return nil
}
