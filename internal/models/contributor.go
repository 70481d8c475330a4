package models

import "net/http"

// Contributor represents a community member contributing recordings,
// transcriptions or translations.
type Contributor struct {
	Handle  string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	Name    string `json:"name,omitempty" maxLength:"100" example:"Asha Toto" doc:"Contributor name"`
	Email   string `json:"email" format:"email" maxLength:"100" minLength:"5" example:"asha@example.org" doc:"Contributor email"`
	Contact string `json:"contact,omitempty" maxLength:"500" doc:"Private contact details (phone, address). Stored encrypted, returned only to admins."`
	Role    string `json:"role,omitempty" enum:"contributor,linguist,elder" default:"contributor" doc:"Role within the community project"`
}

// Request and Response structs for the contributor administration API.
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.

// Put/post contributor request/response
// PUT Path: "/v1/contributors/{handle}"
// POST Path: "/v1/contributors"

type PutContributorRequest struct {
	Handle string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
	Body   Contributor
}

type PostContributorRequest struct {
	Body Contributor
}

type UploadContributorResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Handle string `json:"handle" doc:"Handle of created or updated contributor"`
		APIKey string `json:"api_key,omitempty" doc:"API key, returned only when a new contributor is created"`
	}
}

// Get all contributors request/response
// Path: "/v1/contributors"

type GetContributorsRequest struct {
	Limit  int `json:"limit,omitempty" query:"limit" minimum:"1" maximum:"200" default:"20" doc:"Maximum number of contributors to return"`
	Offset int `json:"offset,omitempty" query:"offset" minimum:"0" default:"0" doc:"Offset into the list of contributors"`
}

type GetContributorsResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   struct {
		Handles []string `json:"handles" doc:"Handles of all registered contributors"`
	}
}

// Get contributor request/response
// Path: "/v1/contributors/{handle}"

type GetContributorRequest struct {
	Handle string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
}

type GetContributorResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
	Body   Contributor
}

// Delete contributor request/response
// Path: "/v1/contributors/{handle}"

type DeleteContributorRequest struct {
	Handle string `json:"handle" path:"handle" minLength:"3" maxLength:"20" example:"asha" doc:"Contributor handle"`
}

type DeleteContributorResponse struct {
	Header []http.Header `json:"header,omitempty" doc:"Response headers"`
}
