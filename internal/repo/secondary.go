package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-contact-backend/internal/config"
	"github.com/tbourn/go-contact-backend/internal/domain"
)

// Backend names reported by Secondary.Backend.
const (
	BackendNone     = "none"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// ErrUnavailable is returned by Unavailable.Insert.
var ErrUnavailable = errors.New("secondary store unavailable")

// Secondary is the best-effort relational copy of the submission log.
//
// It is decided once at startup by Connect and is one of two variants:
// Unavailable (no backend reachable) or *Available (an open handle). Callers
// never test for a nil handle; each variant implements every operation.
type Secondary interface {
	// Available reports whether a backend was reached at startup.
	Available() bool
	// Backend names the active backend ("none" when unavailable).
	Backend() string
	// Insert stores one submission. The caller decides how to treat errors.
	Insert(ctx context.Context, sub domain.Submission) error
	// SelectAll returns every row newest first, or an empty slice on failure.
	SelectAll(ctx context.Context) []domain.Submission
	// Close releases the underlying handle.
	Close() error
}

// Unavailable is the Secondary used when no backend could be reached.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }
func (Unavailable) Backend() string { return BackendNone }
func (Unavailable) Insert(context.Context, domain.Submission) error {
	return ErrUnavailable
}
func (Unavailable) SelectAll(context.Context) []domain.Submission { return []domain.Submission{} }
func (Unavailable) Close() error                                 { return nil }

// Available is a Secondary backed by an open GORM handle.
type Available struct {
	db      *gorm.DB
	backend string
}

// NewAvailable wraps an already migrated handle.
func NewAvailable(backend string, db *gorm.DB) *Available {
	return &Available{db: db, backend: backend}
}

func (a *Available) Available() bool { return true }
func (a *Available) Backend() string { return a.backend }

// DB exposes the handle for diagnostics and tests.
func (a *Available) DB() *gorm.DB { return a.db }

// Insert creates a new row; the database assigns the id.
func (a *Available) Insert(ctx context.Context, sub domain.Submission) error {
	sub.ID = 0
	return CreateSubmission(ctx, a.db, &sub)
}

// SelectAll lists rows by id descending. Query failures are logged and read
// as an empty result.
func (a *Available) SelectAll(ctx context.Context) []domain.Submission {
	rows, err := ListSubmissions(ctx, a.db)
	if err != nil {
		log.Warn().Err(err).Str("backend", a.backend).Msg("secondary select failed")
		return []domain.Submission{}
	}
	return rows
}

// Close closes the connection pool.
func (a *Available) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Candidate is one backend strategy tried by Connect.
type Candidate struct {
	Name string
	Open func(ctx context.Context) (*gorm.DB, error)
}

// Candidates returns the backends to try, in priority order: the networked
// database (only when DB_HOST is configured), then embedded SQLite (unless
// disabled). With tracing enabled each opened handle is instrumented.
func Candidates(cfg config.Config) []Candidate {
	var out []Candidate
	db := cfg.DB

	if db.Host != "" {
		switch db.Driver {
		case "postgres":
			out = append(out, Candidate{Name: BackendPostgres, Open: func(ctx context.Context) (*gorm.DB, error) {
				return OpenPostgres(ctx, db)
			}})
		default:
			out = append(out, Candidate{Name: BackendMySQL, Open: func(ctx context.Context) (*gorm.DB, error) {
				return OpenMySQL(ctx, db)
			}})
		}
	}

	if db.SQLiteEnabled {
		path := db.SQLitePath
		out = append(out, Candidate{Name: BackendSQLite, Open: func(context.Context) (*gorm.DB, error) {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, err
				}
			}
			return OpenSQLite(path)
		}})
	}

	if cfg.OTEL.Enabled {
		for i := range out {
			open := out[i].Open
			out[i].Open = func(ctx context.Context) (*gorm.DB, error) {
				g, err := open(ctx)
				if err != nil {
					return nil, err
				}
				if err := Instrument(g); err != nil {
					log.Warn().Err(err).Msg("gorm tracing plugin not installed")
				}
				return g, nil
			}
		}
	}
	return out
}

// Connect tries each candidate in order and returns the first one that opens
// and migrates. When none succeeds it returns Unavailable. Every failure is
// logged and otherwise absorbed.
func Connect(ctx context.Context, candidates ...Candidate) Secondary {
	for _, c := range candidates {
		db, err := c.Open(ctx)
		if err != nil {
			log.Warn().Err(err).Str("backend", c.Name).Msg("secondary backend not reachable")
			continue
		}
		if err := AutoMigrate(db); err != nil {
			log.Warn().Err(err).Str("backend", c.Name).Msg("secondary schema creation failed")
			if sqlDB, derr := db.DB(); derr == nil {
				_ = sqlDB.Close()
			}
			continue
		}
		ev := log.Info().Str("backend", c.Name)
		if n, err := CountSubmissions(ctx, db); err == nil {
			ev = ev.Int64("rows", n)
		}
		ev.Msg("secondary store available")
		return NewAvailable(c.Name, db)
	}
	log.Warn().Msg("no secondary backend available, using backup file only")
	return Unavailable{}
}
