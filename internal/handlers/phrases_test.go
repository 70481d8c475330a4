package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// createPhrase adds a phrase pair and returns its ID.
func createPhrase(t *testing.T, code, apiKey, text, translation string) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"text": %q, "translation": %q}`, text, translation)
	status, respBody := doJSON(t, http.MethodPost, "/v1/phrases/"+code, apiKey, body)
	if status != http.StatusCreated {
		t.Fatalf("Unable to create phrase: status %d, body: %s", status, respBody)
	}
	info := struct {
		Phrase struct {
			PhraseID int64 `json:"phrase_id"`
		} `json:"phrase"`
	}{}
	assert.NoError(t, json.Unmarshal([]byte(respBody), &info))
	return info.Phrase.PhraseID
}

func TestPhraseFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning phrases tests ...\n\n")

	createLanguage(t, "sit-toto", "Toto")

	t.Run("Add a phrase pair", func(t *testing.T) {
		body := `{"text": "ti loka", "translation": "good morning", "notes": "common greeting"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/phrases/sit-toto", options.AdminKey, body)
		assert.Equal(t, http.StatusCreated, status, "body: %s", respBody)
		assert.Contains(t, respBody, `"origin": "human"`)
		assert.Contains(t, respBody, `"reviewed": false`)
		assert.Contains(t, respBody, `"locale": "en"`)
	})

	t.Run("Add a phrase for an unknown language", func(t *testing.T) {
		body := `{"text": "ti loka", "translation": "good morning"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/phrases/mjx", options.AdminKey, body)
		assert.Equal(t, http.StatusNotFound, status, "body: %s", respBody)
	})

	t.Run("Add a phrase without API key", func(t *testing.T) {
		body := `{"text": "ti loka", "translation": "good morning"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/phrases/sit-toto", "", body)
		assert.Equal(t, http.StatusUnauthorized, status, "body: %s", respBody)
	})

	phraseID := createPhrase(t, "sit-toto", options.AdminKey, "ti mama dhokho cha", "where are you going")

	t.Run("Get all phrases", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodGet, "/v1/phrases/sit-toto", "", "")
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, "ti loka")
		assert.Contains(t, respBody, "ti mama dhokho cha")
	})

	t.Run("Filter reviewed phrases, none yet", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodGet, "/v1/phrases/sit-toto?reviewed=true", "", "")
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, `"phrases": []`)
	})

	t.Run("Review a phrase", func(t *testing.T) {
		path := fmt.Sprintf("/v1/phrases/sit-toto/%d/review", phraseID)
		status, respBody := doJSON(t, http.MethodPost, path, options.AdminKey, "")
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, `"reviewed": true`)

		status, respBody = doJSON(t, http.MethodGet, "/v1/phrases/sit-toto?reviewed=true", "", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, respBody, "ti mama dhokho cha")
		assert.NotContains(t, respBody, "ti loka")
	})

	t.Run("Review a nonexistent phrase", func(t *testing.T) {
		status, respBody := doJSON(t, http.MethodPost, "/v1/phrases/sit-toto/999999/review", options.AdminKey, "")
		assert.Equal(t, http.StatusNotFound, status, "body: %s", respBody)
	})

	t.Run("Delete a phrase", func(t *testing.T) {
		path := fmt.Sprintf("/v1/phrases/sit-toto/%d", phraseID)
		status, respBody := doJSON(t, http.MethodDelete, path, options.AdminKey, "")
		assert.Equal(t, http.StatusNoContent, status, "body: %s", respBody)

		status, respBody = doJSON(t, http.MethodDelete, path, options.AdminKey, "")
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

func TestTranslateFunc(t *testing.T) {
	// Get the database connection pool from package variable
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// Start the server
	err, shutDownServer := startTestServer(t, pool, mockKeyGen, defaultServices())
	assert.NoError(t, err)

	fmt.Printf("\nRunning translate tests ...\n\n")

	createLanguage(t, "sit-toto", "Toto")

	t.Run("Translate out of the language", func(t *testing.T) {
		body := `{"text": "ti loka", "source_code": "sit-toto", "target_code": "en"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/translate", options.AdminKey, body)
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		// The stub translator reports the resolved language names
		assert.Contains(t, respBody, "[Toto->en] ti loka")
	})

	t.Run("Translate into the language", func(t *testing.T) {
		body := `{"text": "good morning", "source_code": "en", "target_code": "sit-toto"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/translate", options.AdminKey, body)
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, "[en->Toto] good morning")
	})

	t.Run("Translate between unknown languages", func(t *testing.T) {
		body := `{"text": "hello", "source_code": "fr", "target_code": "de"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/translate", options.AdminKey, body)
		assert.Equal(t, http.StatusNotFound, status, "body: %s", respBody)
		assert.Contains(t, respBody, "neither fr nor de is a registered language")
	})

	t.Run("Store the machine translation", func(t *testing.T) {
		body := `{"text": "aje mung", "source_code": "sit-toto", "target_code": "en", "store": true}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/translate", options.AdminKey, body)
		assert.Equal(t, http.StatusOK, status, "body: %s", respBody)
		assert.Contains(t, respBody, `"phrase_id"`)

		status, respBody = doJSON(t, http.MethodGet, "/v1/phrases/sit-toto?reviewed=false", "", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, respBody, `"origin": "machine"`)
		assert.Contains(t, respBody, "aje mung")
	})

	t.Run("Translate without API key", func(t *testing.T) {
		body := `{"text": "ti loka", "source_code": "sit-toto", "target_code": "en"}`
		status, respBody := doJSON(t, http.MethodPost, "/v1/translate", "", body)
		assert.Equal(t, http.StatusUnauthorized, status, "body: %s", respBody)
	})

	// Cleanup removes items created by the tests
	t.Cleanup(func() {
		fmt.Print("\n\nRunning cleanup ...\n\n")
		resetDatabase(t)
		fmt.Print("Shutting down server\n\n")
		shutDownServer()
	})
}

func TestTranslateWithoutTranslator(t *testing.T) {
	pool := connPool

	mockKeyGen := new(MockKeyGen)

	// This deployment has no translation backend
	svc := defaultServices()
	svc.Translator = nil

	err, shutDownServer := startTestServer(t, pool, mockKeyGen, svc)
	assert.NoError(t, err)

	body := `{"text": "ti loka", "source_code": "sit-toto", "target_code": "en"}`
	status, respBody := doJSON(t, http.MethodPost, "/v1/translate", options.AdminKey, body)
	assert.Equal(t, http.StatusServiceUnavailable, status, "body: %s", respBody)
	assert.Contains(t, respBody, "machine translation is not configured")

	t.Cleanup(func() {
		resetDatabase(t)
		shutDownServer()
	})
}
