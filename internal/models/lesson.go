package models

import "net/http"

// Lesson is a learning resource: an ordered selection of corpus phrases
// with a title and difficulty level.
type Lesson struct {
	LanguageCode string `json:"language_code" doc:"Language the lesson teaches"`
	Slug         string `json:"slug" minLength:"3" maxLength:"50" pattern:"^[a-z0-9-]+$" example:"greetings-1" doc:"Lesson slug"`
	Title        string `json:"title" minLength:"1" maxLength:"200" example:"Greetings and introductions" doc:"Lesson title"`
	Level        string `json:"level" enum:"beginner,intermediate,advanced" doc:"Difficulty level"`
	PhraseIDs    []int64 `json:"phrase_ids" doc:"Corpus phrases making up the lesson, in teaching order"`
}

// Request and Response structs for the learning resources API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Put lesson request/response
// Path: "/v1/lessons/{code}/{slug}"

type PutLessonRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Slug string `json:"slug" path:"slug" minLength:"3" maxLength:"50" pattern:"^[a-z0-9-]+$" example:"greetings-1" doc:"Lesson slug"`
	Body Lesson
}

type PutLessonResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Slug string `json:"slug" doc:"Slug of created or updated lesson"`
	}
}

// Get all lessons request/response
// Path: "/v1/lessons/{code}"

type GetLessonsRequest struct {
	Code   string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Limit  int    `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of lessons to return"`
	Offset int    `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of lessons"`
}

type GetLessonsResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Lessons []Lesson `json:"lessons" doc:"Lessons for the language"`
	}
}

// Get lesson request/response (resolved with phrase bodies)
// Path: "/v1/lessons/{code}/{slug}"

type GetLessonRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Slug string `json:"slug" path:"slug" minLength:"3" maxLength:"50" example:"greetings-1" doc:"Lesson slug"`
}

type GetLessonResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Lesson  Lesson  `json:"lesson" doc:"Lesson information"`
		Phrases Phrases `json:"phrases" doc:"Phrase bodies in teaching order"`
	}
}

// Delete lesson request/response
// Path: "/v1/lessons/{code}/{slug}"

type DeleteLessonRequest struct {
	Code string `json:"code" path:"code" minLength:"2" maxLength:"8" example:"sit-toto" doc:"Language code"`
	Slug string `json:"slug" path:"slug" minLength:"3" maxLength:"50" example:"greetings-1" doc:"Lesson slug"`
}

type DeleteLessonResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}
