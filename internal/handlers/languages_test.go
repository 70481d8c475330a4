package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning languages tests ...\n\n")

	totoJSON := `{"code": "sit-toto", "name": "Toto", "family": "Sino-Tibetan", "script": "Toto", "endangerment": "critically_endangered", "regions": ["West Bengal"], "speakers": 1600}`

	// Define test cases
	tt := []struct {
		name         string
		method       string
		requestPath  string
		body         string
		apiKey       string
		expectBody   string
		expectStatus int
	}{
		{
			name:         "Put language, everything valid",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/sit-toto",
			body:         totoJSON,
			apiKey:       options.AdminKey,
			expectBody:   `"code": "sit-toto"`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "Put language, code mismatch",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/mjx",
			body:         totoJSON,
			apiKey:       options.AdminKey,
			expectBody:   "language code in URL (mjx) does not match language code in body (sit-toto)",
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Put language, invalid API key",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/sit-toto",
			body:         totoJSON,
			apiKey:       "not-the-admin-key",
			expectBody:   "Authentication failed",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "Put language, no API key",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/sit-toto",
			body:         totoJSON,
			apiKey:       "",
			expectBody:   "Authentication failed",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "Put language, invalid endangerment level",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/mjx",
			body:         `{"code": "mjx", "name": "Mahali", "endangerment": "fine"}`,
			apiKey:       options.AdminKey,
			expectBody:   "expected value to be one of",
			expectStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "Post second language",
			method:       http.MethodPost,
			requestPath:  "/v1/languages",
			body:         `{"code": "mjx", "name": "Mahali", "endangerment": "severely_endangered", "regions": ["Jharkhand"]}`,
			apiKey:       options.AdminKey,
			expectBody:   `"code": "mjx"`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "Get all languages",
			method:       http.MethodGet,
			requestPath:  "/v1/languages",
			apiKey:       "",
			expectBody:   `"sit-toto"`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Get language with statistics",
			method:       http.MethodGet,
			requestPath:  "/v1/languages/sit-toto",
			apiKey:       "",
			expectBody:   `"stats"`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Get nonexistent language",
			method:       http.MethodGet,
			requestPath:  "/v1/languages/xx",
			apiKey:       "",
			expectBody:   "language xx not found",
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "Update language speaker count",
			method:       http.MethodPut,
			requestPath:  "/v1/languages/sit-toto",
			body:         `{"code": "sit-toto", "name": "Toto", "endangerment": "critically_endangered", "speakers": 1700}`,
			apiKey:       options.AdminKey,
			expectBody:   `"code": "sit-toto"`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "Delete language",
			method:       http.MethodDelete,
			requestPath:  "/v1/languages/mjx",
			apiKey:       options.AdminKey,
			expectBody:   "",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "Delete nonexistent language",
			method:       http.MethodDelete,
			requestPath:  "/v1/languages/mjx",
			apiKey:       options.AdminKey,
			expectBody:   "language mjx not found",
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "Delete language without API key",
			method:       http.MethodDelete,
			requestPath:  "/v1/languages/sit-toto",
			apiKey:       "",
			expectBody:   "Authentication failed",
			expectStatus: http.StatusUnauthorized,
		},
	}

	for _, v := range tt {
		t.Run(v.name, func(t *testing.T) {
			status, body := doJSON(t, v.method, v.requestPath, v.apiKey, v.body)
			assert.Equal(t, v.expectStatus, status, "body: %s", body)
			if v.expectBody != "" {
				assert.Contains(t, body, v.expectBody)
			}
		})
	}

	// Cleanup removes items created by the tests
	t.Cleanup(func() {
		fmt.Print("\n\nRunning cleanup ...\n\n")
		resetDatabase(t)
		fmt.Print("Shutting down server\n\n")
		shutDownServer()
	})
}

func TestLanguageMetadataSchema(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// This deployment requires a "province" string in language metadata
	svc := defaultServices()
	svc.MetadataSchema = `{
		"type": "object",
		"properties": {"province": {"type": "string"}},
		"required": ["province"]
	}`

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	t.Run("Metadata matching the schema is accepted", func(t *testing.T) {
		body := `{"code": "sat", "name": "Santali", "endangerment": "vulnerable", "metadata": {"province": "Jharkhand"}}`
		status, respBody := doJSON(t, http.MethodPut, "/v1/languages/sat", options.AdminKey, body)
		assert.Equal(t, http.StatusCreated, status, "body: %s", respBody)
	})

	t.Run("Metadata violating the schema is rejected", func(t *testing.T) {
		body := `{"code": "sat", "name": "Santali", "endangerment": "vulnerable", "metadata": {"province": 7}}`
		status, respBody := doJSON(t, http.MethodPut, "/v1/languages/sat", options.AdminKey, body)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Contains(t, respBody, "invalid language metadata")
	})

	t.Run("Missing metadata passes when nothing is supplied", func(t *testing.T) {
		body := `{"code": "kru", "name": "Kurukh", "endangerment": "vulnerable"}`
		status, respBody := doJSON(t, http.MethodPut, "/v1/languages/kru", options.AdminKey, body)
		assert.Equal(t, http.StatusCreated, status, "body: %s", respBody)
	})

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}
