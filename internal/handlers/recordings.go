package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lipipala/lipipala/internal/audio"
	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recordingFromRow converts a database row into the API model.
func recordingFromRow(r database.Recording) models.Recording {
	rec := models.Recording{
		RecordingID:     r.RecordingID,
		Contributor:     r.ContributorHandle,
		LanguageCode:    r.LanguageCode,
		Title:           r.Title.String,
		Speaker:         r.Speaker.String,
		DurationSeconds: r.DurationSeconds,
		SampleRate:      int(r.SampleRate),
		SizeBytes:       r.SizeBytes,
		Status:          r.Status,
	}
	if r.CreatedAt.Valid {
		rec.CreatedAt = r.CreatedAt.Time.UTC()
	}
	return rec
}

// postRecordingFunc archives an uploaded WAV file and stores its metadata.
// The audio is probed before anything touches the database, so a rejected
// upload leaves no trace.
func postRecordingFunc(ctx context.Context, input *models.PostRecordingRequest) (*models.PostRecordingResponse, error) {
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

	// Check that contributor and language exist
	queries := database.New(pool)
	if _, err := queries.RetrieveContributor(ctx, input.Handle); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("contributor %s not found. %v", input.Handle, err))
	}
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}

	// Reject auto-transcribe before the audio is archived
	if input.AutoTranscribe && svc.Jobs == nil {
		return nil, huma.Error503ServiceUnavailable("transcription is not configured on this deployment")
	}

	formData := input.RawBody.Data()
	file := formData.File
	if !file.IsSet {
		return nil, huma.Error400BadRequest("no audio file in upload")
	}
	if svc.Options != nil && svc.Options.MaxUploadBytes > 0 && file.Size > svc.Options.MaxUploadBytes {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge, fmt.Sprintf("audio file is %d bytes, the limit is %d bytes", file.Size, svc.Options.MaxUploadBytes))
	}

	// Probe the audio before anything is written
	info, err := audio.Probe(file)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("unable to read audio file. %v", err))
	}
	if err := audio.Validate(info); err != nil {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("unsupported audio format. %v", err))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to rewind audio file. %v", err))
	}

	// Write the audio to the archive directory
	recordingID := uuid.NewString()
	archiveDir := "data/recordings"
	if svc.Options != nil && svc.Options.ArchiveDir != "" {
		archiveDir = svc.Options.ArchiveDir
	}
	dir := filepath.Join(archiveDir, input.Code)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to create archive directory. %v", err))
	}
	filePath := filepath.Join(dir, recordingID+".wav")
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to create archive file. %v", err))
	}
	written, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filePath)
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to archive audio file. %v", err))
	}

	// Run the query
	r, err := queries.InsertRecording(ctx, database.InsertRecordingParams{
		RecordingID:       recordingID,
		ContributorHandle: input.Handle,
		LanguageCode:      input.Code,
		Title:             pgtype.Text{String: formData.Title, Valid: formData.Title != ""},
		Speaker:           pgtype.Text{String: formData.Speaker, Valid: formData.Speaker != ""},
		DurationSeconds:   info.DurationSeconds,
		SampleRate:        int32(info.SampleRate),
		SizeBytes:         written,
		Status:            "pending",
		FilePath:          filePath,
	})
	if err != nil {
		_ = os.Remove(filePath)
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to store recording. %v", err))
	}

	// Queue the recording for background transcription if requested.
	// The status flips to queued before the job becomes visible to the
	// worker, so the worker's own status updates always come later.
	if input.AutoTranscribe {
		if err := queries.UpdateRecordingStatus(ctx, database.UpdateRecordingStatusParams{
			RecordingID: r.RecordingID,
			Status:      "queued",
		}); err == nil {
			r.Status = "queued"
		}
		if !svc.Jobs.Enqueue(r.RecordingID) {
			// Queue full, leave the recording waiting for a manual run
			_ = queries.UpdateRecordingStatus(ctx, database.UpdateRecordingStatusParams{
				RecordingID: r.RecordingID,
				Status:      "pending",
			})
			r.Status = "pending"
		}
	}

	// Build the response
	response := &models.PostRecordingResponse{}
	response.Body.Recording = recordingFromRow(r)
	return response, nil
}

// Get all recordings of a contributor
func getRecordingsFunc(ctx context.Context, input *models.GetRecordingsRequest) (*models.GetRecordingsResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that contributor exists
	queries := database.New(pool)
	if _, err := queries.RetrieveContributor(ctx, input.Handle); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("contributor %s not found. %v", input.Handle, err))
	}

	// Run the query
	allRecordings, err := queries.GetRecordingsByContributor(ctx, database.GetRecordingsByContributorParams{
		ContributorHandle: input.Handle,
		Limit:             int32(input.Limit),
		Offset:            int32(input.Offset),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get recordings of contributor %s. %v", input.Handle, err))
	}

	// Build the response
	response := &models.GetRecordingsResponse{}
	response.Body.Recordings = []models.Recording{}
	for _, r := range allRecordings {
		response.Body.Recordings = append(response.Body.Recordings, recordingFromRow(r))
	}

	return response, nil
}

// Get a specific recording
func getRecordingFunc(ctx context.Context, input *models.GetRecordingRequest) (*models.GetRecordingResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the query
	queries := database.New(pool)
	r, err := queries.RetrieveRecording(ctx, input.RecordingID)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found. %v", input.RecordingID, err))
	}
	if r.ContributorHandle != input.Handle {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found for contributor %s", input.RecordingID, input.Handle))
	}

	// Build the response
	response := &models.GetRecordingResponse{}
	response.Body.Recording = recordingFromRow(r)
	return response, nil
}

// Delete a specific recording together with its archived audio file
func deleteRecordingFunc(ctx context.Context, input *models.DeleteRecordingRequest) (*models.DeleteRecordingResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check if recording exists and belongs to the contributor
	queries := database.New(pool)
	r, err := queries.RetrieveRecording(ctx, input.RecordingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found", input.RecordingID))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if recording %s exists before deleting. %v", input.RecordingID, err))
	}
	if r.ContributorHandle != input.Handle {
		return nil, huma.Error404NotFound(fmt.Sprintf("recording %s not found for contributor %s", input.RecordingID, input.Handle))
	}

	// Run the query, then remove the archived audio
	if err := queries.DeleteRecording(ctx, input.RecordingID); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to delete recording %s. %v", input.RecordingID, err))
	}
	if err := os.Remove(r.FilePath); err != nil && !os.IsNotExist(err) {
		fmt.Printf("    Unable to remove archived audio %s: %v\n", r.FilePath, err)
	}

	// Build the response
	response := &models.DeleteRecordingResponse{}
	return response, nil
}

// RegisterRecordingsRoutes registers all the recording archive routes with the API
func RegisterRecordingsRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	postRecordingOp := huma.Operation{
		OperationID:   "postRecording",
		Method:        http.MethodPost,
		Path:          "/v1/recordings/{handle}/{code}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Upload a recording",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
		},
		Tags: []string{"recordings"},
	}
	getRecordingsOp := huma.Operation{
		OperationID: "getRecordings",
		Method:      http.MethodGet,
		Path:        "/v1/recordings/{handle}",
		Summary:     "Get all recordings of a contributor",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"recordings"},
	}
	getRecordingOp := huma.Operation{
		OperationID: "getRecording",
		Method:      http.MethodGet,
		Path:        "/v1/recordings/{handle}/{recording_id}",
		Summary:     "Get information about a recording",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"recordings"},
	}
	deleteRecordingOp := huma.Operation{
		OperationID:   "deleteRecording",
		Method:        http.MethodDelete,
		Path:          "/v1/recordings/{handle}/{recording_id}",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete a recording and its archived audio",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
		},
		Tags: []string{"recordings"},
	}

	// Register the routes with middleware
	huma.Register(api, postRecordingOp, addPoolToContext(pool, addServicesToContext(svc, postRecordingFunc)))
	huma.Register(api, getRecordingsOp, addPoolToContext(pool, getRecordingsFunc))
	huma.Register(api, getRecordingOp, addPoolToContext(pool, getRecordingFunc))
	huma.Register(api, deleteRecordingOp, addPoolToContext(pool, deleteRecordingFunc))
	return nil
}
