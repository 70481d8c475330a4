// Package worker runs background transcription of uploaded recordings.
package worker

import (
	"context"
	"fmt"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/speech"
)

// Store is the slice of the database layer the worker needs.
// *database.Queries satisfies it.
type Store interface {
	RetrieveRecording(ctx context.Context, recordingID string) (database.Recording, error)
	UpdateRecordingStatus(ctx context.Context, arg database.UpdateRecordingStatusParams) error
	UpsertTranscription(ctx context.Context, arg database.UpsertTranscriptionParams) (database.Transcription, error)
}

// Transcriber consumes queued recording IDs and writes transcripts back
// through the store. A failed job marks the recording as failed and never
// stops the worker.
type Transcriber struct {
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
	jobs       chan string
	store      Store
	recognizer speech.Recognizer
}

// NewTranscriber creates a transcription worker.
func NewTranscriber(store Store, recognizer speech.Recognizer, queueSize int) (*Transcriber, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if recognizer == nil {
		return nil, fmt.Errorf("recognizer is required")
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transcriber{
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		jobs:       make(chan string, queueSize),
		store:      store,
		recognizer: recognizer,
	}, nil
}

// Enqueue queues a recording for transcription. It reports false when the
// queue is full, leaving the recording in its current status.
func (t *Transcriber) Enqueue(recordingID string) bool {
	select {
	case t.jobs <- recordingID:
		return true
	default:
		return false
	}
}

// Start launches the worker loop.
func (t *Transcriber) Start() {
	go func() {
		defer close(t.done)
		for {
			select {
			case <-t.ctx.Done():
				return
			case recordingID := <-t.jobs:
				if err := t.process(recordingID); err != nil {
					fmt.Printf("    Transcription of recording %s failed: %v\n", recordingID, err)
					_ = t.store.UpdateRecordingStatus(t.ctx, database.UpdateRecordingStatusParams{
						RecordingID: recordingID,
						Status:      "failed",
					})
				}
			}
		}
	}()
}

// Stop cancels the worker and waits for the loop to exit.
func (t *Transcriber) Stop() {
	t.cancel()
	<-t.done
}

func (t *Transcriber) process(recordingID string) error {
	rec, err := t.store.RetrieveRecording(t.ctx, recordingID)
	if err != nil {
		return fmt.Errorf("unable to load recording: %w", err)
	}

	result, err := t.recognizer.Transcribe(t.ctx, rec.FilePath, rec.LanguageCode)
	if err != nil {
		return err
	}

	if _, err := t.store.UpsertTranscription(t.ctx, database.UpsertTranscriptionParams{
		RecordingID:     rec.RecordingID,
		LanguageCode:    rec.LanguageCode,
		Text:            result.Text,
		Confidence:      result.Confidence,
		DurationSeconds: result.DurationSeconds,
		Engine:          result.Engine,
	}); err != nil {
		return fmt.Errorf("unable to store transcription: %w", err)
	}

	return t.store.UpdateRecordingStatus(t.ctx, database.UpdateRecordingStatusParams{
		RecordingID: rec.RecordingID,
		Status:      "transcribed",
	})
}
