package models

import (
	"net/http"
	"time"
)

// Transcription is the ASR result for one recording.
type Transcription struct {
	RecordingID     string    `json:"recording_id" doc:"Recording identifier (UUID)"`
	LanguageCode    string    `json:"language_code" doc:"Language of the transcription"`
	Text            string    `json:"text" doc:"Transcribed text"`
	Confidence      float64   `json:"confidence" minimum:"0" maximum:"1" doc:"Engine confidence in the transcription"`
	DurationSeconds float64   `json:"duration_seconds" minimum:"0" doc:"Audio duration as seen by the engine"`
	Engine          string    `json:"engine" example:"whisper-api" doc:"Engine that produced the transcription"`
	CreatedAt       time.Time `json:"created_at" doc:"Time of first transcription"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Time of last re-transcription"`
}

// Request and Response structs for the transcription API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Post transcription request/response (run ASR on an archived recording)
// Path: "/v1/transcriptions/{handle}/{recording_id}"

type PostTranscriptionRequest struct {
	Handle      string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	RecordingID string `json:"recording_id" path:"recording_id" format:"uuid" doc:"Recording identifier"`
}

type PostTranscriptionResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Transcription Transcription `json:"transcription" doc:"Transcription result"`
	}
}

// Get transcription request/response
// Path: "/v1/transcriptions/{handle}/{recording_id}"

type GetTranscriptionRequest struct {
	Handle      string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	RecordingID string `json:"recording_id" path:"recording_id" format:"uuid" doc:"Recording identifier"`
}

type GetTranscriptionResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Transcription Transcription `json:"transcription" doc:"Transcription result"`
	}
}

// Get all transcriptions of a language request/response
// Path: "/v1/languages/{code}/transcriptions"

type GetLanguageTranscriptionsRequest struct {
	Code   string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Limit  int    `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of transcriptions to return"`
	Offset int    `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of transcriptions"`
}

type GetLanguageTranscriptionsResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Transcriptions []Transcription `json:"transcriptions" doc:"Transcriptions for the language"`
	}
}
