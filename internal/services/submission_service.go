// Package services – SubmissionService
//
// This file implements the SubmissionService, which orchestrates the dual
// write of contact-form submissions. The JSON backup file is authoritative:
// a submission is accepted once it is appended there. The relational
// secondary store is a best-effort copy written from a background goroutine
// whose failures are logged and otherwise ignored.
//
// Reads follow the same split. List always returns the backup contents and
// adds the relational rows only when a backend was reachable at startup.
// AdminRows prefers the relational rows (newest first by id) and falls back
// to the backup file in reverse insertion order.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-contact-backend/internal/domain"
	"github.com/tbourn/go-contact-backend/internal/repo"
)

// BackupStore is the primary store contract consumed by SubmissionService.
type BackupStore interface {
	// ReadAll returns all submissions in insertion order, never failing.
	ReadAll() []domain.Submission
	// Append durably adds one submission at the end.
	Append(ctx context.Context, sub domain.Submission) error
}

// Sources reported in AdminView.Source.
const (
	SourceDB     = "db"
	SourceBackup = "backup"
)

// Listing is the result of List.
type Listing struct {
	Backup []domain.Submission
	DB     []domain.Submission
	// HasDB is true when the secondary store is available, even if DB is empty.
	HasDB bool
}

// AdminView is the newest-first row set rendered by the admin page.
type AdminView struct {
	Rows   []domain.Submission
	Source string
}

// SubmissionService implements the submit/list use-cases.
// It is safe for concurrent use.
type SubmissionService struct {
	// Backup is the authoritative JSON file store.
	Backup BackupStore
	// Replica is the secondary store chosen at startup.
	Replica repo.Secondary
	// Now is the clock used to fill missing timestamps.
	Now func() time.Time

	inflight sync.WaitGroup
}

// NewSubmissionService wires a service to its stores. A nil replica is
// treated as unavailable.
func NewSubmissionService(backup BackupStore, replica repo.Secondary) *SubmissionService {
	if replica == nil {
		replica = repo.Unavailable{}
	}
	return &SubmissionService{
		Backup:  backup,
		Replica: replica,
		Now:     time.Now,
	}
}

// Submit stamps in (when it has no timestamp), appends it to the backup
// file, and dispatches the replica insert without waiting for it.
//
// Errors:
//   - ErrBackupWrite wrapping the cause when the backup append fails. Nothing
//     is sent to the replica in that case.
func (s *SubmissionService) Submit(ctx context.Context, in domain.Submission) (domain.Submission, error) {
	rec := in.WithTimestamp(s.Now())
	rec.ID = 0

	if err := s.Backup.Append(ctx, rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrBackupWrite, err)
	}

	s.replicate(ctx, rec)
	return rec, nil
}

// replicate sends rec to the secondary store on a tracked goroutine that
// outlives the request.
func (s *SubmissionService) replicate(ctx context.Context, rec domain.Submission) {
	if !s.Replica.Available() {
		return
	}
	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := s.Replica.Insert(bg, rec); err != nil {
			log.Warn().
				Err(err).
				Str("backend", s.Replica.Backend()).
				Str("timestamp", rec.Timestamp).
				Msg("secondary insert failed")
		}
	}()
}

// Wait blocks until every dispatched replica insert has finished.
func (s *SubmissionService) Wait() { s.inflight.Wait() }

// List returns the backup contents and, when available, the relational rows.
func (s *SubmissionService) List(ctx context.Context) Listing {
	out := Listing{Backup: s.Backup.ReadAll()}
	if s.Replica.Available() {
		out.HasDB = true
		out.DB = s.Replica.SelectAll(ctx)
	}
	return out
}

// AdminRows returns all submissions newest first along with where they came from.
func (s *SubmissionService) AdminRows(ctx context.Context) AdminView {
	if s.Replica.Available() {
		return AdminView{Rows: s.Replica.SelectAll(ctx), Source: SourceDB}
	}
	all := s.Backup.ReadAll()
	rev := make([]domain.Submission, len(all))
	for i, sub := range all {
		rev[len(all)-1-i] = sub
	}
	return AdminView{Rows: rev, Source: SourceBackup}
}

// ReplicaBackend names the active secondary backend.
func (s *SubmissionService) ReplicaBackend() string { return s.Replica.Backend() }
