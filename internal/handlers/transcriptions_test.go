package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/speech"
	"github.com/lipipala/lipipala/internal/worker"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptionFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning transcriptions tests ...\n\n")

	// Seed a language, a contributor and a recording
	createLanguage(t, "sit-toto", "Toto")
	contributorKey := createContributor(t, mockKeyGen, "asha", "11111111111111111111111111111111")

	status, body := uploadRecording(t, "asha", "sit-toto", contributorKey, wavBytes(16000, 1.0), "")
	assert.Equal(t, http.StatusCreated, status, "body: %s", body)
	info := struct {
		Recording struct {
			RecordingID string `json:"recording_id"`
		} `json:"recording"`
	}{}
	assert.NoError(t, json.Unmarshal([]byte(body), &info))
	recordingID := info.Recording.RecordingID

	t.Run("Transcribe a recording", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, "/v1/transcriptions/asha/"+recordingID, contributorKey, "")
		assert.Equal(t, http.StatusCreated, status, "body: %s", body)
		assert.Contains(t, body, `"text": "ti mama dhokho cha"`)
		assert.Contains(t, body, `"engine": "stub"`)
		assert.Contains(t, body, `"duration_seconds": 1.5`)
	})

	t.Run("Recording status moves to transcribed", func(t *testing.T) {
		status, body := doJSON(t, http.MethodGet, "/v1/recordings/asha/"+recordingID, contributorKey, "")
		assert.Equal(t, http.StatusOK, status, "body: %s", body)
		assert.Contains(t, body, `"status": "transcribed"`)
	})

	t.Run("Get the transcription", func(t *testing.T) {
		status, body := doJSON(t, http.MethodGet, "/v1/transcriptions/asha/"+recordingID, contributorKey, "")
		assert.Equal(t, http.StatusOK, status, "body: %s", body)
		assert.Contains(t, body, `"language_code": "sit-toto"`)
	})

	t.Run("Re-transcribing replaces the transcription", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, "/v1/transcriptions/asha/"+recordingID, contributorKey, "")
		assert.Equal(t, http.StatusCreated, status, "body: %s", body)
	})

	t.Run("Get all transcriptions of a language", func(t *testing.T) {
		status, body := doJSON(t, http.MethodGet, "/v1/languages/sit-toto/transcriptions", "", "")
		assert.Equal(t, http.StatusOK, status, "body: %s", body)
		assert.Contains(t, body, recordingID)
	})

	t.Run("Transcribe nonexistent recording", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, "/v1/transcriptions/asha/7f9c24e5-2f44-4f41-a4f3-6a1f5a3d9b0e", contributorKey, "")
		assert.Equal(t, http.StatusNotFound, status, "body: %s", body)
	})

	t.Run("Transcribe without API key", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, "/v1/transcriptions/asha/"+recordingID, "", "")
		assert.Equal(t, http.StatusUnauthorized, status, "body: %s", body)
	})

	// Cleanup removes items created by the tests
	t.Cleanup(func() {
		fmt.Print("\n\nRunning cleanup ...\n\n")
		resetDatabase(t)
		fmt.Print("Shutting down server\n\n")
		shutDownServer()
	})
}

func TestTranscriptionWithoutRecognizer(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// This deployment has no speech recognition backend
	svc := defaultServices()
	svc.Recognizer = nil

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	createLanguage(t, "sit-toto", "Toto")
	contributorKey := createContributor(t, mockKeyGen, "asha", "11111111111111111111111111111111")

	status, body := uploadRecording(t, "asha", "sit-toto", contributorKey, wavBytes(16000, 1.0), "")
	assert.Equal(t, http.StatusCreated, status, "body: %s", body)
	info := struct {
		Recording struct {
			RecordingID string `json:"recording_id"`
		} `json:"recording"`
	}{}
	assert.NoError(t, json.Unmarshal([]byte(body), &info))

	t.Run("Synchronous transcription answers 503", func(t *testing.T) {
		status, body := doJSON(t, http.MethodPost, "/v1/transcriptions/asha/"+info.Recording.RecordingID, contributorKey, "")
		assert.Equal(t, http.StatusServiceUnavailable, status, "body: %s", body)
		assert.Contains(t, body, "speech recognition is not configured")
	})

	t.Run("Auto-transcribe upload answers 503", func(t *testing.T) {
		status, body := uploadRecording(t, "asha", "sit-toto", contributorKey, wavBytes(16000, 1.0), "?auto_transcribe=true")
		assert.Equal(t, http.StatusServiceUnavailable, status, "body: %s", body)
		assert.Contains(t, body, "transcription is not configured")

		// The rejected upload must not have persisted; only the earlier
		// plain upload is listed.
		status, body = doJSON(t, http.MethodGet, "/v1/recordings/asha", contributorKey, "")
		assert.Equal(t, http.StatusOK, status, "body: %s", body)
		assert.Equal(t, 1, strings.Count(body, `"recording_id"`))
	})

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}

func TestTranscriptionBackgroundWorker(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Wire a real worker around the stub recognizer
	svc := defaultServices()
	jobs, err := worker.NewTranscriber(database.New(pool), svc.Recognizer, options.QueueSize)
	assert.NoError(t, err)
	svc.Jobs = jobs
	jobs.Start()

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	createLanguage(t, "sit-toto", "Toto")
	contributorKey := createContributor(t, mockKeyGen, "asha", "11111111111111111111111111111111")

	status, body := uploadRecording(t, "asha", "sit-toto", contributorKey, wavBytes(16000, 1.0), "?auto_transcribe=true")
	assert.Equal(t, http.StatusCreated, status, "body: %s", body)
	assert.Contains(t, body, `"status": "queued"`)
	info := struct {
		Recording struct {
			RecordingID string `json:"recording_id"`
		} `json:"recording"`
	}{}
	assert.NoError(t, json.Unmarshal([]byte(body), &info))
	recordingID := info.Recording.RecordingID

	t.Run("Worker transcribes the queued recording", func(t *testing.T) {
		assert.Eventually(t, func() bool {
			status, body := doJSON(t, http.MethodGet, "/v1/recordings/asha/"+recordingID, contributorKey, "")
			return status == http.StatusOK && strings.Contains(body, `"status": "transcribed"`)
		}, 5*time.Second, 50*time.Millisecond, "recording never reached transcribed status")

		status, body := doJSON(t, http.MethodGet, "/v1/transcriptions/asha/"+recordingID, contributorKey, "")
		assert.Equal(t, http.StatusOK, status, "body: %s", body)
		assert.Contains(t, body, `"text": "ti mama dhokho cha"`)
		assert.Contains(t, body, `"engine": "stub"`)
	})

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
		jobs.Stop()
	})
}

func TestTranscriptionUnsupportedLanguage(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// This recognizer refuses the language
	svc := defaultServices()
	svc.Recognizer = &stubRecognizer{err: speech.ErrLanguageNotSupported}

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	createLanguage(t, "sit-toto", "Toto")
	contributorKey := createContributor(t, mockKeyGen, "asha", "11111111111111111111111111111111")

	status, body := uploadRecording(t, "asha", "sit-toto", contributorKey, wavBytes(16000, 1.0), "")
	assert.Equal(t, http.StatusCreated, status, "body: %s", body)
	info := struct {
		Recording struct {
			RecordingID string `json:"recording_id"`
		} `json:"recording"`
	}{}
	assert.NoError(t, json.Unmarshal([]byte(body), &info))

	status, body = doJSON(t, http.MethodPost, "/v1/transcriptions/asha/"+info.Recording.RecordingID, contributorKey, "")
	assert.Equal(t, http.StatusUnprocessableEntity, status, "body: %s", body)
	assert.Contains(t, body, "not supported by the stub engine")

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}
