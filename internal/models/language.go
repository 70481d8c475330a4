package models

import (
	"encoding/json"
	"net/http"
)

// Language is an entry in the language registry.
type Language struct {
	Code         string          `json:"code" path:"code" minLength:"2" maxLength:"8" pattern:"^[a-z][a-z0-9-]*$" example:"sit-toto" doc:"Language code"`
	Name         string          `json:"name" maxLength:"100" example:"Toto" doc:"Language name"`
	Family       string          `json:"family,omitempty" maxLength:"100" example:"Sino-Tibetan" doc:"Language family"`
	Script       string          `json:"script,omitempty" maxLength:"50" example:"Toto (Latin transliteration)" doc:"Writing system, if any"`
	Endangerment string          `json:"endangerment" enum:"vulnerable,definitely_endangered,severely_endangered,critically_endangered,extinct" doc:"UNESCO endangerment level"`
	Regions      []string        `json:"regions,omitempty" example:"[\"West Bengal\"]" doc:"Regions where the language is spoken"`
	Speakers     int             `json:"speakers,omitempty" minimum:"0" example:"1600" doc:"Estimated number of speakers"`
	Metadata     json.RawMessage `json:"metadata,omitempty" doc:"Additional metadata (json), e.g. ISO 639-3 code or Glottolog id" example:"{\n  \"iso639_3\": \"txo\"\n}\n"`
}

// LanguageStats summarizes the collected material for one language.
type LanguageStats struct {
	Recordings     int `json:"recordings" doc:"Number of archived recordings"`
	Transcriptions int `json:"transcriptions" doc:"Number of transcribed recordings"`
	Phrases        int `json:"phrases" doc:"Number of corpus phrases"`
	Lessons        int `json:"lessons" doc:"Number of lessons"`
}

// Request and Response structs for the language registry API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Put/post language request/response
// PUT Path: "/v1/languages/{code}"
// POST Path: "/v1/languages"

type PutLanguageRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" pattern:"^[a-z][a-z0-9-]*$" example:"sit-toto" doc:"Language code"`
	Body Language
}

type PostLanguageRequest struct {
	Body Language
}

type UploadLanguageResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Code string `json:"code" doc:"Code of created or updated language"`
	}
}

// Get all languages request/response
// Path: "/v1/languages"

type GetLanguagesRequest struct {
	Limit  int `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of languages to return"`
	Offset int `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of languages"`
}

type GetLanguagesResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Languages []Language `json:"languages" doc:"Registered languages"`
	}
}

// Get language request/response
// Path: "/v1/languages/{code}"

type GetLanguageRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
}

type GetLanguageResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Language Language      `json:"language" doc:"Language information"`
		Stats    LanguageStats `json:"stats" doc:"Collection statistics for the language"`
	}
}

// Delete language request/response
// Path: "/v1/languages/{code}"

type DeleteLanguageRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
}

type DeleteLanguageResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}
