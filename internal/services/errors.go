// Package services defines the business logic for contact-form submissions.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Submission-related errors.
var (
	// ErrBackupWrite indicates the submission could not be appended to the
	// backup file. The request must fail; nothing was replicated.
	ErrBackupWrite = errors.New("backup write failed")
)
