package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/speech"

	"github.com/stretchr/testify/assert"
)

// fakeStore records the calls the worker makes.
type fakeStore struct {
	mu           sync.Mutex
	recordings   map[string]database.Recording
	transcripts  map[string]database.UpsertTranscriptionParams
	statuses     map[string]string
	retrieveErr  error
	transcribeCh chan string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recordings:   map[string]database.Recording{},
		transcripts:  map[string]database.UpsertTranscriptionParams{},
		statuses:     map[string]string{},
		transcribeCh: make(chan string, 16),
	}
}

func (s *fakeStore) RetrieveRecording(ctx context.Context, recordingID string) (database.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retrieveErr != nil {
		return database.Recording{}, s.retrieveErr
	}
	rec, ok := s.recordings[recordingID]
	if !ok {
		return database.Recording{}, errors.New("no rows in result set")
	}
	return rec, nil
}

func (s *fakeStore) UpdateRecordingStatus(ctx context.Context, arg database.UpdateRecordingStatusParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[arg.RecordingID] = arg.Status
	s.transcribeCh <- arg.RecordingID
	return nil
}

func (s *fakeStore) UpsertTranscription(ctx context.Context, arg database.UpsertTranscriptionParams) (database.Transcription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[arg.RecordingID] = arg
	return database.Transcription{RecordingID: arg.RecordingID, Text: arg.Text}, nil
}

func (s *fakeStore) status(recordingID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[recordingID]
}

// fakeRecognizer returns a fixed result or error.
type fakeRecognizer struct {
	result speech.Result
	err    error
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, path string, lang string) (speech.Result, error) {
	if f.err != nil {
		return speech.Result{}, f.err
	}
	return f.result, nil
}

func (f *fakeRecognizer) Name() string { return "fake" }
func (f *fakeRecognizer) Close()       {}

func waitForStatus(t *testing.T, store *fakeStore, recordingID string) {
	t.Helper()
	select {
	case <-store.transcribeCh:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for worker to process %s", recordingID)
	}
}

func TestTranscriberProcessesJob(t *testing.T) {
	store := newFakeStore()
	store.recordings["rec-1"] = database.Recording{
		RecordingID:  "rec-1",
		LanguageCode: "sit-toto",
		FilePath:     "/tmp/rec-1.wav",
	}
	rec := &fakeRecognizer{result: speech.Result{Text: "ti loka", Confidence: 0.9, DurationSeconds: 12.5, Engine: "fake"}}

	tw, err := NewTranscriber(store, rec, 4)
	assert.NoError(t, err)
	tw.Start()
	defer tw.Stop()

	assert.True(t, tw.Enqueue("rec-1"))
	waitForStatus(t, store, "rec-1")

	assert.Equal(t, "transcribed", store.status("rec-1"))
	assert.Equal(t, "ti loka", store.transcripts["rec-1"].Text)
	assert.Equal(t, "fake", store.transcripts["rec-1"].Engine)
	assert.Equal(t, 12.5, store.transcripts["rec-1"].DurationSeconds)
}

func TestTranscriberMarksFailedJobs(t *testing.T) {
	store := newFakeStore()
	store.recordings["rec-2"] = database.Recording{
		RecordingID:  "rec-2",
		LanguageCode: "sit-toto",
		FilePath:     "/tmp/rec-2.wav",
	}
	rec := &fakeRecognizer{err: speech.ErrAudioProcessing}

	tw, err := NewTranscriber(store, rec, 4)
	assert.NoError(t, err)
	tw.Start()
	defer tw.Stop()

	assert.True(t, tw.Enqueue("rec-2"))
	waitForStatus(t, store, "rec-2")

	assert.Equal(t, "failed", store.status("rec-2"))
	assert.Empty(t, store.transcripts["rec-2"].Text)
}

func TestTranscriberQueueFull(t *testing.T) {
	store := newFakeStore()
	rec := &fakeRecognizer{}

	// Not started, so the queue fills up.
	tw, err := NewTranscriber(store, rec, 1)
	assert.NoError(t, err)

	assert.True(t, tw.Enqueue("rec-a"))
	assert.False(t, tw.Enqueue("rec-b"))
}

func TestNewTranscriberValidation(t *testing.T) {
	_, err := NewTranscriber(nil, &fakeRecognizer{}, 4)
	assert.Error(t, err)

	_, err = NewTranscriber(newFakeStore(), nil, 4)
	assert.Error(t, err)
}
