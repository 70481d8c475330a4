package models

import "net/http"

// SimilarPhrase is one nearest-neighbour hit of a phrase similarity search.
type SimilarPhrase struct {
	Phrase   Phrase  `json:"phrase" doc:"Matching corpus phrase"`
	Distance float64 `json:"distance" doc:"Cosine distance to the query (0 is identical)"`
}

// Request and Response structs for the phrase similarity API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Post similar request/response (free-text query)
// Path: "/v1/similars/{code}"

type PostSimilarRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Body struct {
		Text  string `json:"text" minLength:"1" maxLength:"2000" doc:"Query text"`
		Count int    `json:"count,omitempty" minimum:"1" maximum:"50" default:"5" doc:"Number of neighbours to return"`
	}
}

// Get similar request/response (neighbours of a stored phrase)
// Path: "/v1/similars/{code}/{phrase_id}"

type GetSimilarRequest struct {
	Code     string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	PhraseID int64  `json:"phrase_id" path:"phrase_id" doc:"Phrase identifier"`
	Count    int    `json:"count,omitempty" query:"count" minimum:"1" maximum:"50" default:"5" doc:"Number of neighbours to return"`
}

type SimilarResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Similars []SimilarPhrase `json:"similars" doc:"Nearest corpus phrases"`
	}
}
