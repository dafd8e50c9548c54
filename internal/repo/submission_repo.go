// Package repo implements the relational persistence layer for submissions,
// backed by GORM. This file provides repository functions for the Submission
// model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition. Raw GORM errors are returned; the Secondary wrappers in
// secondary.go decide which of them to absorb.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-contact-backend/internal/domain"
)

// CreateSubmission inserts sub and fills its auto-increment ID.
func CreateSubmission(ctx context.Context, db *gorm.DB, sub *domain.Submission) error {
	return db.WithContext(ctx).Create(sub).Error
}

// ListSubmissions returns all rows ordered by id descending (newest first).
func ListSubmissions(ctx context.Context, db *gorm.DB) ([]domain.Submission, error) {
	out := []domain.Submission{}
	err := db.WithContext(ctx).Order("id DESC").Find(&out).Error
	return out, err
}

// CountSubmissions uses a raw COUNT so a missing table surfaces as an error.
func CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM submissions").Scan(&total).Error
	return total, err
}
