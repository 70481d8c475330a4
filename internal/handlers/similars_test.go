package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning similars tests ...\n\n")

	createLanguage(t, "sit-toto", "Toto")

	// The stub embedder maps shared prefixes to nearby vectors, so the two
	// greetings end up closer to each other than to the third phrase.
	greeting1 := createPhrase(t, "sit-toto", options.AdminKey, "ti loka", "good morning")
	greeting2 := createPhrase(t, "sit-toto", options.AdminKey, "ti loka baba", "good morning father")
	farewell := createPhrase(t, "sit-toto", options.AdminKey, "aje mung", "see you later")

	t.Run("Find phrases similar to a free-text query", func(t *testing.T) {
		body := `{"text": "ti loka", "count": 2}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/similars/sit-toto", "", body)
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, "good morning")
		assert.Contains(t, respBody, `"distance"`)
	})

	t.Run("Free-text query against an unknown language", func(t *testing.T) {
		body := `{"text": "ti loka"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/similars/mjx", "", body)
		assert.Equal(t, http.StatusNotFound, status, "body: %s", respBody)
	})

	t.Run("Find phrases similar to a stored phrase", func(t *testing.T) {
		path := fmt.Sprintf("/v1/similars/sit-toto/%d?count=1", greeting1)
		status, respBody := doJSON(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		// The nearest neighbour of one greeting is the other greeting
		assert.Contains(t, respBody, fmt.Sprintf(`"phrase_id": %d`, greeting2))
		assert.NotContains(t, respBody, fmt.Sprintf(`"phrase_id": %d`, farewell))
	})

	t.Run("Neighbours of a nonexistent phrase", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodGet, "/v1/similars/sit-toto/999999", "", "")
		assert.Equal(t, http.StatusNotFound, status, "body: %s", respBody)
	})

	// Cleanup removes items created by the tests
	t.Cleanup(func() {
		fmt.Print("\n\nRunning cleanup ...\n\n")
		resetDatabase(t)
		fmt.Print("Shutting down server\n\n")
		shutDownServer()
	})
}

func TestSimilarWithoutEmbedder(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// This deployment has no embedding backend
	svc := defaultServices()
	svc.Embedder = nil

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	createLanguage(t, "sit-toto", "Toto")

	t.Run("Free-text similarity answers 503", func(t *testing.T) {
		body := `{"text": "ti loka"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/similars/sit-toto", "", body)
		assert.Equal(t, http.StatusServiceUnavailable, status, "body: %s", respBody)
		assert.Contains(t, respBody, "phrase embeddings are not configured")
	})

	t.Run("Phrases are stored without embeddings", func(t *testing.T) {
		phraseID := createPhrase(t, "sit-toto", options.AdminKey, "ti loka", "good morning")

		// Without an embedding the phrase has no neighbours and is itself
		// invisible to similarity search
		path := fmt.Sprintf("/v1/similars/sit-toto/%d", phraseID)
		status, respBody := doJSON(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, `"similars": []`)
	})

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}
