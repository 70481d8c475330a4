package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lipipala/lipipala/internal/crypto"

	"github.com/stretchr/testify/assert"
)

func TestContributorFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	// Create a mock key generator
	mockKeyGen := new(MockKeyGen)
	// Set up expectations for the mock key generator
	mockKeyGen.On("RandomKey", 32).Return("12345678901234567890123456789012", nil)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning contributors tests ...\n\n")

	ashaJSON := `{"handle": "asha", "name": "Asha Toto", "email": "asha@example.org", "role": "elder"}`

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
			name:         "Put contributor, everything valid",
			method:       http.MethodPut,
			requestPath:  "/v1/contributors/asha",
			body:         ashaJSON,
			apiKey:       options.AdminKey,
			expectBody:   `"api_key": "12345678901234567890123456789012"`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "Put existing contributor does not rotate the key",
			method:       http.MethodPut,
			requestPath:  "/v1/contributors/asha",
			body:         ashaJSON,
			apiKey:       options.AdminKey,
			expectBody:   `"handle": "asha"`,
			expectStatus: http.StatusCreated,
		},
		{
			name:         "Put contributor, handle mismatch",
			method:       http.MethodPut,
			requestPath:  "/v1/contributors/ravi",
			body:         ashaJSON,
			apiKey:       options.AdminKey,
			expectBody:   "contributor handle in URL (ravi) does not match contributor handle in body (asha)",
			expectStatus: http.StatusBadRequest,
		},
		{
			name:         "Put contributor, invalid API key",
			method:       http.MethodPut,
			requestPath:  "/v1/contributors/asha",
			body:         ashaJSON,
			apiKey:       "not-the-admin-key",
			expectBody:   "Authentication failed",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "Put contributor, missing email",
			method:       http.MethodPut,
			requestPath:  "/v1/contributors/ravi",
			body:         `{"handle": "ravi", "name": "Ravi"}`,
			apiKey:       options.AdminKey,
			expectBody:   "expected required property email to be present",
			expectStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "Get all contributors",
			method:       http.MethodGet,
			requestPath:  "/v1/contributors",
			apiKey:       options.AdminKey,
			expectBody:   `"asha"`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Get all contributors without API key",
			method:       http.MethodGet,
			requestPath:  "/v1/contributors",
			apiKey:       "",
			expectBody:   "Authentication failed",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "Get contributor as admin",
			method:       http.MethodGet,
			requestPath:  "/v1/contributors/asha",
			apiKey:       options.AdminKey,
			expectBody:   `"email": "asha@example.org"`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Get contributor with own key",
			method:       http.MethodGet,
			requestPath:  "/v1/contributors/asha",
			apiKey:       "12345678901234567890123456789012",
			expectBody:   `"handle": "asha"`,
			expectStatus: http.StatusOK,
		},
		{
			name:         "Get nonexistent contributor",
			method:       http.MethodGet,
			requestPath:  "/v1/contributors/alfons",
			apiKey:       options.AdminKey,
			expectBody:   "contributor alfons not found",
			expectStatus: http.StatusNotFound,
		},
		{
			name:         "Delete contributor",
			method:       http.MethodDelete,
			requestPath:  "/v1/contributors/asha",
			apiKey:       options.AdminKey,
			expectBody:   "",
			expectStatus: http.StatusNoContent,
		},
		{
			name:         "Delete nonexistent contributor",
			method:       http.MethodDelete,
			requestPath:  "/v1/contributors/asha",
			apiKey:       options.AdminKey,
			expectBody:   "contributor asha not found",
			expectStatus: http.StatusNotFound,
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

	// Verify that the expectations regarding the mock key generation were met
	mockKeyGen.AssertExpectations(t)

	// Cleanup removes items created by the tests
	t.Cleanup(func() {
		fmt.Print("\n\nRunning cleanup ...\n\n")
		resetDatabase(t)
		fmt.Print("Shutting down server\n\n")
		shutDownServer()
	})
}

func TestContributorContactEncryption(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)
	mockKeyGen.On("RandomKey", 32).Return("abcdefabcdefabcdefabcdefabcdefab", nil)

	// This deployment can encrypt private contact details
	contactKey, err := crypto.GenerateEncryptionKey()
	assert.NoError(t, err)
	svc := defaultServices()
	svc.ContactKey = contactKey

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	body := `{"handle": "ravi", "name": "Ravi Orang", "email": "ravi@example.org", "contact": "+91 12345 67890, Totopara"}`
	status, respBody := doJSON(t, http.MethodPut, "/v1/contributors/ravi", options.AdminKey, body)
	assert.Equal(t, http.StatusCreated, status, "body: %s", respBody)

	t.Run("Admins see decrypted contact details", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodGet, "/v1/contributors/ravi", options.AdminKey, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, respBody, "+91 12345 67890, Totopara")
	})

	t.Run("Owners do not see contact details", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodGet, "/v1/contributors/ravi", "abcdefabcdefabcdefabcdefabcdefab", "")
		assert.Equal(t, http.StatusOK, status)
		assert.NotContains(t, respBody, "Totopara")
	})

	mockKeyGen.AssertExpectations(t)

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}
