// Package handlers defines HTTP-layer error codes used across endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name the operation that failed. Clients branch on the code,
// never on the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "unauthorized",
//	  "message": "authentication required"
//	}
package handlers

import "github.com/tbourn/go-contact-backend/internal/http/middleware"

const (
	ErrCodeUnauthorized     = middleware.CodeUnauthorized
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeSaveFailed = "save_failed"
)

// Messages for the submit endpoint's compact response shape.
const (
	statusOK       = "ok"
	statusError    = "error"
	msgInvalidJSON = "Invalid JSON"
	msgSaveFailed  = "could not save submission"
	rootBanner     = "Submission server running. POST to /api/submit"
)
