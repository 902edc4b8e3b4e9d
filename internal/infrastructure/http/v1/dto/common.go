// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// SuccessResponse acknowledges an action without payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PathnameQuery scopes a request to the tables of one route.
type PathnameQuery struct {
	Pathname string `form:"pathname"`
}
