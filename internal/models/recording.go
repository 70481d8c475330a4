package models

import (
	"net/http"
	"time"

	huma "github.com/danielgtaylor/huma/v2"
)

// Recording is the metadata record for one archived audio file.
// The audio itself lives on disk under the archive directory.
type Recording struct {
	RecordingID     string    `json:"recording_id" example:"7f9c24e5-2f44-4f41-a4f3-6a1f5a3d9b0e" doc:"Recording identifier (UUID)"`
	Contributor     string    `json:"contributor" doc:"Handle of the contributor who uploaded the recording"`
	LanguageCode    string    `json:"language_code" doc:"Language of the recording"`
	Title           string    `json:"title,omitempty" maxLength:"200" doc:"Short description of the recording"`
	Speaker         string    `json:"speaker,omitempty" maxLength:"100" doc:"Name or pseudonym of the recorded speaker"`
	DurationSeconds float64   `json:"duration_seconds" doc:"Audio duration in seconds"`
	SampleRate      int       `json:"sample_rate" doc:"Sample rate of the audio in Hz"`
	SizeBytes       int64     `json:"size_bytes" doc:"Size of the audio file in bytes"`
	Status          string    `json:"status" enum:"pending,queued,transcribed,failed" doc:"Transcription status"`
	CreatedAt       time.Time `json:"created_at" doc:"Upload time"`
}

// RecordingFormData is the multipart payload of a recording upload.
type RecordingFormData struct {
	File    huma.FormFile `form:"file" contentType:"audio/wav,audio/x-wav,application/octet-stream" required:"true"`
	Title   string        `form:"title" doc:"Short description of the recording"`
	Speaker string        `form:"speaker" doc:"Name or pseudonym of the recorded speaker"`
}

// Request and Response structs for the data collection API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Post recording request/response
// Path: "/v1/recordings/{handle}/{code}"

type PostRecordingRequest struct {
	Handle         string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	Code           string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	AutoTranscribe bool   `json:"auto_transcribe,omitempty" query:"auto_transcribe" doc:"Queue the recording for background transcription"`
	RawBody        huma.MultipartFormFiles[RecordingFormData]
}

type PostRecordingResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Recording Recording `json:"recording" doc:"Stored recording metadata"`
	}
}

// Get all recordings of a contributor request/response
// Path: "/v1/recordings/{handle}"

type GetRecordingsRequest struct {
	Handle string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	Limit  int    `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of recordings to return"`
	Offset int    `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of recordings"`
}

type GetRecordingsResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Recordings []Recording `json:"recordings" doc:"Recordings uploaded by the contributor"`
	}
}

// Get recording request/response
// Path: "/v1/recordings/{handle}/{recording_id}"

type GetRecordingRequest struct {
	Handle      string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	RecordingID string `json:"recording_id" path:"recording_id" format:"uuid" doc:"Recording identifier"`
}

type GetRecordingResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Recording Recording `json:"recording" doc:"Recording metadata"`
	}
}

// Delete recording request/response
// Path: "/v1/recordings/{handle}/{recording_id}"

type DeleteRecordingRequest struct {
	Handle      string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	RecordingID string `json:"recording_id" path:"recording_id" format:"uuid" doc:"Recording identifier"`
}

type DeleteRecordingResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}
