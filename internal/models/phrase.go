package models

import (
	"net/http"
	"time"
)

// Phrase is one entry of the parallel corpus: a piece of text in an
// endangered language together with its translation into a contact locale.
type Phrase struct {
	PhraseID     int64     `json:"phrase_id" doc:"Phrase identifier"`
	LanguageCode string    `json:"language_code" doc:"Language of the source text"`
	Text         string    `json:"text" minLength:"1" maxLength:"2000" doc:"Source text"`
	Translation  string    `json:"translation" minLength:"1" maxLength:"2000" doc:"Translation of the source text"`
	Locale       string    `json:"locale" minLength:"2" maxLength:"8" default:"en" example:"en" doc:"Locale of the translation"`
	Notes        string    `json:"notes,omitempty" maxLength:"1000" doc:"Gloss, cultural context or usage notes"`
	Reviewed     bool      `json:"reviewed" doc:"Whether a human reviewer approved the pair"`
	Origin       string    `json:"origin" enum:"human,machine" doc:"Whether the translation was contributed or machine generated"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation time"`
}

type Phrases []Phrase

func (ps Phrases) GetIDs() []int64 {
	ids := []int64{}
	for _, p := range ps {
		ids = append(ids, p.PhraseID)
	}
	return ids
}

// Request and Response structs for the parallel corpus and translation API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Post phrase request/response
// Path: "/v1/phrases/{code}"

type PostPhraseRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Body struct {
		Text        string `json:"text" minLength:"1" maxLength:"2000" doc:"Source text"`
		Translation string `json:"translation" minLength:"1" maxLength:"2000" doc:"Translation of the source text"`
		Locale      string `json:"locale,omitempty" minLength:"2" maxLength:"8" default:"en" doc:"Locale of the translation"`
		Notes       string `json:"notes,omitempty" maxLength:"1000" doc:"Gloss, cultural context or usage notes"`
	}
}

type PostPhraseResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Phrase Phrase `json:"phrase" doc:"Stored phrase"`
	}
}

// Get phrases request/response
// Path: "/v1/phrases/{code}"

type GetPhrasesRequest struct {
	Code     string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Reviewed string `json:"reviewed,omitempty" query:"reviewed" enum:"true,false,all" default:"all" doc:"Filter by review status"`
	Limit    int    `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of phrases to return"`
	Offset   int    `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of phrases"`
}

type GetPhrasesResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Phrases Phrases `json:"phrases" doc:"Corpus phrases"`
	}
}

// Review phrase request/response
// Path: "/v1/phrases/{code}/{phrase_id}/review"

type ReviewPhraseRequest struct {
	Code     string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	PhraseID int64  `json:"phrase_id" path:"phrase_id" doc:"Phrase identifier"`
}

type ReviewPhraseResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Phrase Phrase `json:"phrase" doc:"Reviewed phrase"`
	}
}

// Delete phrase request/response
// Path: "/v1/phrases/{code}/{phrase_id}"

type DeletePhraseRequest struct {
	Code     string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	PhraseID int64  `json:"phrase_id" path:"phrase_id" doc:"Phrase identifier"`
}

type DeletePhraseResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}

// Machine translation request/response
// Path: "/v1/translate"

type PostTranslateRequest struct {
	Body struct {
		Text       string `json:"text" minLength:"1" maxLength:"2000" doc:"Text to translate"`
		SourceCode string `json:"source_code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code of the source text"`
		TargetCode string `json:"target_code" minLength:"2" maxLength:"8" example:"en" doc:"Locale to translate into"`
		Store      bool   `json:"store,omitempty" doc:"Store the result in the parallel corpus as an unreviewed machine translation"`
	}
}

type PostTranslateResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Translation string `json:"translation" doc:"Machine translation of the text"`
		PhraseID    int64  `json:"phrase_id,omitempty" doc:"Identifier of the stored corpus phrase, if stored"`
	}
}
