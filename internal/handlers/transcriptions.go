package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"
	"github.com/lipipala/lipipala/internal/speech"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// transcriptionFromRow converts a database row into the API model.
func transcriptionFromRow(t database.Transcription) models.Transcription {
	tr := models.Transcription{
		RecordingID:     t.RecordingID,
		LanguageCode:    t.LanguageCode,
		Text:            t.Text,
		Confidence:      t.Confidence,
		DurationSeconds: t.DurationSeconds,
		Engine:          t.Engine,
	}
	if t.CreatedAt.Valid {
		tr.CreatedAt = t.CreatedAt.Time.UTC()
	}
	if t.UpdatedAt.Valid {
		tr.UpdatedAt = t.UpdatedAt.Time.UTC()
	}
	return tr
}

// postTranscriptionFunc runs speech recognition on an archived recording
// synchronously and stores the result. Re-running it replaces an earlier
// transcription.
func postTranscriptionFunc(ctx context.Context, input *models.PostTranscriptionRequest) (*models.PostTranscriptionResponse, error) {
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
	if svc.Recognizer == nil {
		return nil, huma.Error503ServiceUnavailable("speech recognition is not configured on this deployment")
	}

	// Check that the recording exists and belongs to the contributor
	queries := database.New(pool)
	r, err := queries.RetrieveRecording(ctx, input.RecordingID)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found. %v", input.RecordingID, err))
	}
	if r.ContributorHandle != input.Handle {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found for contributor %s", input.RecordingID, input.Handle))
	}

	// Run the recognizer
	result, err := svc.Recognizer.Transcribe(ctx, r.FilePath, r.LanguageCode)
	if err != nil {
		if errors.Is(err, speech.ErrLanguageNotSupported) {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("language %s is not supported by the %s engine", r.LanguageCode, svc.Recognizer.Name()))
		}
		_ = queries.UpdateRecordingStatus(ctx, database.UpdateRecordingStatusParams{
			RecordingID: r.RecordingID,
			Status:      "failed",
		})
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to transcribe recording %s. %v", input.RecordingID, err))
	}

	// Store the transcription and update the recording status
	t, err := queries.UpsertTranscription(ctx, database.UpsertTranscriptionParams{
		RecordingID:     r.RecordingID,
		LanguageCode:    r.LanguageCode,
		Text:            result.Text,
		Confidence:      result.Confidence,
		DurationSeconds: result.DurationSeconds,
		Engine:          result.Engine,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to store transcription of recording %s. %v", input.RecordingID, err))
	}
	if err := queries.UpdateRecordingStatus(ctx, database.UpdateRecordingStatusParams{
		RecordingID: r.RecordingID,
		Status:      "transcribed",
	}); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to update status of recording %s. %v", input.RecordingID, err))
	}

	// Build the response
	response := &models.PostTranscriptionResponse{}
	response.Body.Transcription = transcriptionFromRow(t)
	return response, nil
}

// Get the transcription of a recording
func getTranscriptionFunc(ctx context.Context, input *models.GetTranscriptionRequest) (*models.GetTranscriptionResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that the recording exists and belongs to the contributor
	queries := database.New(pool)
	r, err := queries.RetrieveRecording(ctx, input.RecordingID)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found. %v", input.RecordingID, err))
	}
	if r.ContributorHandle != input.Handle {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found for contributor %s", input.RecordingID, input.Handle))
	}

	// Run the query
	t, err := queries.RetrieveTranscription(ctx, input.RecordingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("recording %s has not been transcribed yet", input.RecordingID))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get transcription of recording %s. %v", input.RecordingID, err))
	}

	// Build the response
	response := &models.GetTranscriptionResponse{}
	response.Body.Transcription = transcriptionFromRow(t)
	return response, nil
}

// Get all transcriptions of a language
func getLanguageTranscriptionsFunc(ctx context.Context, input *models.GetLanguageTranscriptionsRequest) (*models.GetLanguageTranscriptionsResponse, error) {
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

	// Run the query
	allTranscriptions, err := queries.GetTranscriptionsByLanguage(ctx, database.GetTranscriptionsByLanguageParams{
		LanguageCode: input.Code,
		Limit:        int32(input.Limit),
		Offset:       int32(input.Offset),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get transcriptions for language %s. %v", input.Code, err))
	}

	// Build the response
	response := &models.GetLanguageTranscriptionsResponse{}
	response.Body.Transcriptions = []models.Transcription{}
	for _, t := range allTranscriptions {
		response.Body.Transcriptions = append(response.Body.Transcriptions, transcriptionFromRow(t))
	}

	return response, nil
}

// RegisterTranscriptionsRoutes registers all the transcription routes with the API
func RegisterTranscriptionsRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	postTranscriptionOp := huma.Operation{
		OperationID:   "postTranscription",
		Method:        http.MethodPost,
		Path:          "/v1/transcriptions/{handle}/{recording_id}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Transcribe a recording",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
		},
		Tags: []string{"transcriptions"},
	}
	getTranscriptionOp := huma.Operation{
		OperationID: "getTranscription",
		Method:      http.MethodGet,
		Path:        "/v1/transcriptions/{handle}/{recording_id}",
		Summary:     "Get the transcription of a recording",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"transcriptions"},
	}
	getLanguageTranscriptionsOp := huma.Operation{
		OperationID: "getLanguageTranscriptions",
		Method:      http.MethodGet,
		Path:        "/v1/languages/{code}/transcriptions",
		Summary:     "Get all transcriptions of a language",
		Tags:        []string{"languages", "transcriptions"},
	}

	// Register the routes with middleware
	huma.Register(api, postTranscriptionOp, addPoolToContext(pool, addServicesToContext(svc, postTranscriptionFunc)))
	huma.Register(api, getTranscriptionOp, addPoolToContext(pool, getTranscriptionFunc))
	huma.Register(api, getLanguageTranscriptionsOp, addPoolToContext(pool, getLanguageTranscriptionsFunc))
	return nil
}
