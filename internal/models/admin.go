package models

import "net/http"

// Request and Response structs for the admin and health API.

// Health check request/response
// Path: "/v1/health"

type GetHealthRequest struct{}

type GetHealthResponse struct {
	Status int
	Body   struct {
		Status   string          `json:"status" enum:"healthy,unhealthy" doc:"Overall service status"`
		Services map[string]bool `json:"services" doc:"Per-service health"`
		Version  string          `json:"version" doc:"Service version"`
	}
}

// Stats request/response
// Path: "/v1/admin/stats"

type LanguageCount struct {
	Code       string `json:"code" doc:"Language code"`
	Recordings int    `json:"recordings" doc:"Number of recordings"`
	Phrases    int    `json:"phrases" doc:"Number of corpus phrases"`
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Languages      int             `json:"languages" doc:"Number of registered languages"`
		Contributors   int             `json:"contributors" doc:"Number of registered contributors"`
		Recordings     int             `json:"recordings" doc:"Number of archived recordings"`
		Transcriptions int             `json:"transcriptions" doc:"Number of transcriptions"`
		Phrases        int             `json:"phrases" doc:"Number of corpus phrases"`
		Lessons        int             `json:"lessons" doc:"Number of lessons"`
		PerLanguage    []LanguageCount `json:"per_language" doc:"Counts per language"`
	}
}

// Reset database request/response
// Path: "/v1/admin/footgun"

type ResetDbRequest struct{}

type ResetDbResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}
