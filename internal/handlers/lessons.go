package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lipipala/lipipala/internal/database"
	"github.com/lipipala/lipipala/internal/models"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// lessonFromRow converts a database row into the API model.
func lessonFromRow(l database.Lesson) models.Lesson {
	phraseIDs := l.PhraseIDs
	if phraseIDs == nil {
		phraseIDs = []int64{}
	}
	return models.Lesson{
		LanguageCode: l.LanguageCode,
		Slug:         l.Slug,
		Title:        l.Title,
		Level:        l.Level,
		PhraseIDs:    phraseIDs,
	}
}

// putLessonFunc creates or updates a lesson. The lesson row and its phrase
// list are written in one transaction.
func putLessonFunc(ctx context.Context, input *models.PutLessonRequest) (*models.PutLessonResponse, error) {
	if input.Body.Slug != "" && input.Slug != input.Body.Slug {
		return nil, huma.Error400BadRequest(fmt.Sprintf("lesson slug in URL (%s) does not match lesson slug in body (%s).", input.Slug, input.Body.Slug))
	}

	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that the language and all referenced phrases exist
	queries := database.New(pool)
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}
	for _, phraseID := range input.Body.PhraseIDs {
		p, err := queries.RetrievePhrase(ctx, phraseID)
		if err != nil || p.LanguageCode != input.Code {
			return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("phrase %d does not exist in language %s", phraseID, input.Code))
		}
	}

	// Run the queries in a transaction
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to begin transaction. %v", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	l, err := database.New(tx).UpsertLesson(ctx, database.UpsertLessonParams{
		LanguageCode: input.Code,
		Slug:         input.Slug,
		Title:        input.Body.Title,
		Level:        input.Body.Level,
		PhraseIDs:    input.Body.PhraseIDs,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to upload lesson. %v", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to commit lesson. %v", err))
	}

	// Build the response
	response := &models.PutLessonResponse{}
	response.Body.Slug = l.Slug
	return response, nil
}

// Get all lessons of a language
func getLessonsFunc(ctx context.Context, input *models.GetLessonsRequest) (*models.GetLessonsResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check that the language exists
	queries := database.New(pool)
	if _, err := queries.RetrieveLanguage(ctx, input.Code); err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("language %s not found. %v", input.Code, err))
	}

	// Run the query
	allLessons, err := queries.GetLessonsByLanguage(ctx, database.GetLessonsByLanguageParams{
		LanguageCode: input.Code,
		Limit:        int32(input.Limit),
		Offset:       int32(input.Offset),
	})
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get lessons for language %s. %v", input.Code, err))
	}

	// Build the response
	response := &models.GetLessonsResponse{}
	response.Body.Lessons = []models.Lesson{}
	for _, l := range allLessons {
		response.Body.Lessons = append(response.Body.Lessons, lessonFromRow(l))
	}

	return response, nil
}

// Get a lesson with its phrase bodies resolved in teaching order
func getLessonFunc(ctx context.Context, input *models.GetLessonRequest) (*models.GetLessonResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Run the queries
	queries := database.New(pool)
	l, err := queries.RetrieveLesson(ctx, database.RetrieveLessonParams{LanguageCode: input.Code, Slug: input.Slug})
	if err != nil {
		return nil, huma.Error404NotFound(fmt.Sprintf("lesson %s not found for language %s. %v", input.Slug, input.Code, err))
	}
	phraseRows, err := queries.GetLessonPhrases(ctx, l.LessonID)
	if err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to get phrases of lesson %s. %v", input.Slug, err))
	}

	// Build the response
	response := &models.GetLessonResponse{}
	response.Body.Lesson = lessonFromRow(l)
	response.Body.Phrases = models.Phrases{}
	for _, p := range phraseRows {
		response.Body.Phrases = append(response.Body.Phrases, phraseFromRow(p))
	}

	return response, nil
}

// Delete a lesson
func deleteLessonFunc(ctx context.Context, input *models.DeleteLessonRequest) (*models.DeleteLessonResponse, error) {
	// Get the database connection pool from the context
	pool, err := GetDBPool(ctx)
	if err != nil {
		return nil, err
	} else if pool == nil {
		return nil, huma.Error500InternalServerError("database connection pool is nil")
	}

	// Check if the lesson exists
	queries := database.New(pool)
	_, err = queries.RetrieveLesson(ctx, database.RetrieveLessonParams{LanguageCode: input.Code, Slug: input.Slug})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, huma.Error404NotFound(fmt.Sprintf("lesson %s not found for language %s", input.Slug, input.Code))
		}
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to check if lesson %s exists before deleting. %v", input.Slug, err))
	}

	// Run the query
	if err := queries.DeleteLesson(ctx, database.DeleteLessonParams{LanguageCode: input.Code, Slug: input.Slug}); err != nil {
		return nil, huma.Error500InternalServerError(fmt.Sprintf("unable to delete lesson %s. %v", input.Slug, err))
	}

	// Build the response
	response := &models.DeleteLessonResponse{}
	return response, nil
}

// RegisterLessonsRoutes registers all the learning resource routes with the API
func RegisterLessonsRoutes(pool *pgxpool.Pool, svc *Services, api huma.API) error {
	// Define huma.Operations for each route
	putLessonOp := huma.Operation{
		OperationID:   "putLesson",
		Method:        http.MethodPut,
		Path:          "/v1/lessons/{code}/{slug}",
		DefaultStatus: http.StatusCreated,
		Summary:       "Create or update a lesson",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
			{"readerAuth": []string{"reader"}},
		},
		Tags: []string{"lessons"},
	}
	getLessonsOp := huma.Operation{
		OperationID: "getLessons",
		Method:      http.MethodGet,
		Path:        "/v1/lessons/{code}",
		Summary:     "Get all lessons of a language",
		Tags:        []string{"lessons"},
	}
	getLessonOp := huma.Operation{
		OperationID: "getLesson",
		Method:      http.MethodGet,
		Path:        "/v1/lessons/{code}/{slug}",
		Summary:     "Get a lesson with its phrases",
		Tags:        []string{"lessons"},
	}
	deleteLessonOp := huma.Operation{
		OperationID:   "deleteLesson",
		Method:        http.MethodDelete,
		Path:          "/v1/lessons/{code}/{slug}",
		DefaultStatus: http.StatusNoContent,
		Summary:       "Delete a lesson",
		Security: []map[string][]string{
			{"adminAuth": []string{"admin"}},
		},
		Tags: []string{"admin", "lessons"},
	}

	// Register the routes with middleware
	huma.Register(api, putLessonOp, addPoolToContext(pool, putLessonFunc))
	huma.Register(api, getLessonsOp, addPoolToContext(pool, getLessonsFunc))
	huma.Register(api, getLessonOp, addPoolToContext(pool, getLessonFunc))
	huma.Register(api, deleteLessonOp, addPoolToContext(pool, deleteLessonFunc))
	return nil
}
