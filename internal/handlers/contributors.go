package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/auth"
	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// putContributorFunc creates or updates a contributor.
// A fresh API key is generated for new contributors and returned exactly
// once; only its SHA-256 hash is stored.
func putContributorFunc(ctx context.Context, input *models.PutContributorRequest) (*models.UploadContributorResponse, error) {
	if input.Handle != input.Body.Handle {
		return nil, huma.Error400BadRequest(fmt.Sprintf("contributor handle in URL (%s) does not match contributor handle in body (%s).", input.Handle, input.Body.Handle))
	}

	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Get the API key generator from the context
	keyGen, err := GetKeyGen(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := GetServices(ctx)
	if err != nil {
		return nil, err
	}

	// Check if the contributor already exists
	queries := database.New(pool)
	existing, err := queries.RetrieveContributor(ctx, input.Handle)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if contributor %s already exists. %v", input.Handle, err))
	}
	newKey := ""
	keyHash := existing.ApiKeyHash
	if existing.Handle != input.Handle {
		// Contributor does not exist, so create a new API key
		k, err := keyGen.RandomKey(32)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to create API key for contributor %s. %v", input.Handle, err))
		}
		newKey = k
		hash := sha256.Sum256([]byte(k))
		keyHash = hex.EncodeToString(hash[:])
	}

	// Encrypt private contact details before they hit the database
	var contactEncrypted []byte
	if input.Body.Contact != "" {
		if svc.ContactKey == nil {
			return nil, huma.Error422UnprocessableEntity("contact details were provided but no encryption key is configured")
		}
		contactEncrypted, err = svc.ContactKey.Encrypt(input.Body.Contact)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to encrypt contact details. %v", err))
		}
	}

	role := input.Body.Role
	if role == "" {
		role = "contributor"
	}

	// Run the query
	c, err := queries.UpsertContributor(ctx, database.UpsertContributorParams{
		Handle:           input.Handle,
		Name:             pgtype.Text{String: input.Body.Name, Valid: input.Body.Name != ""},
		Email:            input.Body.Email,
		ContactEncrypted: contactEncrypted,
		Role:             role,
		ApiKeyHash:       keyHash,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to upload contributor. %v", err))
	}

	// Build the response
	response := &models.UploadContributorResponse{}
	response.Body.Handle = c.Handle
	response.Body.APIKey = newKey
	return response, nil
}

// Create a contributor (without a handle being present in the URL)
func postContributorFunc(ctx context.Context, input *models.PostContributorRequest) (*models.UploadContributorResponse, error) {
	return putContributorFunc(ctx, &models.PutContributorRequest{Handle: input.Body.Handle, Body: input.Body})
}

// Get all contributors
func getContributorsFunc(ctx context.Context, input *models.GetContributorsRequest) (*models.GetContributorsResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the query
	queries := database.New(pool)
	handles, err := queries.GetContributors(ctx, database.GetContributorsParams{Limit: int32(input.Limit), Offset: int32(input.Offset)})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get list of contributors. %v", err))
	}
	if len(handles) == 0 {
		return nil, huma.Error404NotFound("no contributors found.")
	}

	// Build the response
	response := &models.GetContributorsResponse{}
	response.Body.Handles = handles

	return response, nil
}

// Get a specific contributor. Contact details are decrypted for admins only.
func getContributorFunc(ctx context.Context, input *models.GetContributorRequest) (*models.GetContributorResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	svc, err := GetServices(ctx)
	if err != nil {
		return nil, err
	}

	// Run the query
	queries := database.New(pool)
	c, err := queries.RetrieveContributor(ctx, input.Handle)
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("contributor %s not found. %v", input.Handle, err))
	}

	// Build the response
	response := &models.GetContributorResponse{}
	response.Body = models.Contributor{
		Handle: c.Handle,
		Name:   c.Name.String,
		Email:  c.Email,
		Role:   c.Role,
	}
	if isAdmin, ok := ctx.Value(auth.IsAdminKey).(bool); ok && isAdmin && svc.ContactKey != nil {
		contact, err := svc.ContactKey.Decrypt(c.ContactEncrypted)
		if err != nil {
			return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to decrypt contact details. %v", err))
		}
		response.Body.Contact = contact
	}

	return response, nil
}

// Delete a specific contributor
func deleteContributorFunc(ctx context.Context, input *models.DeleteContributorRequest) (*models.DeleteContributorResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check if contributor exists
	queries := database.New(pool)
	_, err = queries.RetrieveContributor(ctx, input.Handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("contributor %s not found", input.Handle))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if contributor %s exists before deleting. %v", input.Handle, err))
	}

	// Run the query
	err = queries.DeleteContributor(ctx, input.Handle)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to delete contributor %s. %v", input.Handle, err))
	}

	// Build the response
	response := &models.DeleteContributorResponse{}
	return response, nil
}

// RegisterContributorsRoutes registers all the contributor routes with the API
func RegisterContributorsRoutes(pool *pgxpool.Pool, keyGen RandomKeyGenerator, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	putContributorOp := huma.Operation{
		OperationID:   "putContributor",
		Method:        http.MethodPut,
		Path:          "/v1/contributors/{handle}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create or update a contributor",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "contributors"},
	}
	postContributorOp := huma.Operation{
		OperationID:   "postContributor",
		Method:        http.MethodPost,
		Path:          "/v1/contributors",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create a contributor",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "contributors"},
	}
	getContributorsOp := huma.Operation{
		OperationID: "getContributors",
		Method:      http.MethodGet,
		Path:        "/v1/contributors",
		Summary:     "Get the handles of all contributors",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "contributors"},
	}
	getContributorOp := huma.Operation{
		OperationID: "getContributor",
		Method:      http.MethodGet,
		Path:        "/v1/contributors/{handle}",
		Summary:     "Get information about a contributor",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"contributorAuth": []string{"owner"}},
		},
		Tags: []string{"contributors"},
	}
	deleteContributorOp := huma.Operation{
		OperationID:   "deleteContributor",
		Method:        http.MethodDelete,
		Path:          "/v1/contributors/{handle}",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete a contributor",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "contributors"},
	}

	// Register the routes with middleware
	huma.Register(api, putContributorOp, addPoolToContext(pool, addKeyGenToContext(keyGen, addServicesToContext(svc, putContributorFunc))))
	huma.Register(api, postContributorOp, addPoolToContext(pool, addKeyGenToContext(keyGen, addServicesToContext(svc, postContributorFunc))))
	huma.Register(api, getContributorsOp, addPoolToContext(pool, getContributorsFunc))
	huma.Register(api, getContributorOp, addPoolToContext(pool, addServicesToContext(svc, getContributorFunc)))
	huma.Register(api, deleteContributorOp, addPoolToContext(pool, deleteContributorFunc))
	return nil
}
