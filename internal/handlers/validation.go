package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateLanguageMetadata validates language metadata against the
// deployment's JSON schema. Deployments without a schema accept any
// metadata, including none.
func ValidateLanguageMetadata(metadata json.RawMessage, schemaStr string) error {
	// If no schema is configured, skip validation
	if schemaStr == "" {
		return nil
	}

	// Empty metadata is always acceptable; the schema constrains only
	// what is actually supplied.
	if len(metadata) == 0 || string(metadata) == "null" {
		return nil
	}

	// Parse the schema
	schemaLoader := gojsonschema.NewStringLoader(schemaStr)

	// Parse the metadata
	metadataLoader := gojsonschema.NewBytesLoader(metadata)

	// Validate
	result, err := gojsonschema.Validate(schemaLoader, metadataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate metadata against schema: %v", err)
	}

	if !result.Valid() {
		// Build a helpful error message with all validation errors
		errMsg := "metadata validation failed:\n"
		for i, desc := range result.Errors() {
			if i > 0 {
				errMsg += "\n"
			}
			errMsg += fmt.Sprintf("  - %s", desc.String())
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}
