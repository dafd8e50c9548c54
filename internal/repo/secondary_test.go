package repo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-contact-backend/internal/config"
	"github.com/tbourn/go-contact-backend/internal/domain"
)

func TestUnavailable_Behaviour(t *testing.T) {
	var s Secondary = Unavailable{}
	ctx := context.Background()

	if s.Available() || s.Backend() != BackendNone {
		t.Fatalf("unexpected state: available=%v backend=%q", s.Available(), s.Backend())
	}
	if err := s.Insert(ctx, domain.Submission{Name: "x"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Insert err = %v; want ErrUnavailable", err)
	}
	if rows := s.SelectAll(ctx); rows == nil || len(rows) != 0 {
		t.Fatalf("SelectAll = %#v; want empty non-nil", rows)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestAvailable_InsertAndSelectAll(t *testing.T) {
	db := newTestDB(t, &domain.Submission{})
	s := NewAvailable(BackendSQLite, db)
	ctx := context.Background()

	if !s.Available() || s.Backend() != BackendSQLite || s.DB() != db {
		t.Fatalf("unexpected state: %+v", s)
	}

	// Caller-provided IDs are ignored; the database assigns them.
	if err := s.Insert(ctx, domain.Submission{ID: 99, Name: "first", Timestamp: "t1"}); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if err := s.Insert(ctx, domain.Submission{ID: 99, Name: "second", Timestamp: "t2"}); err != nil {
		t.Fatalf("insert second: %v", err)
	}

	rows := s.SelectAll(ctx)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "second" || rows[1].Name != "first" {
		t.Fatalf("expected newest first, got %+v", rows)
	}
	if rows[0].ID <= rows[1].ID || rows[1].ID == 99 {
		t.Fatalf("unexpected ids: %+v", rows)
	}
}

func TestAvailable_SelectAllFailureIsEmpty(t *testing.T) {
	db := newTestDB(t /* no table */)
	s := NewAvailable(BackendSQLite, db)

	rows := s.SelectAll(context.Background())
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice on query failure, got %#v", rows)
	}
	if err := s.Insert(context.Background(), domain.Submission{}); err == nil {
		t.Fatalf("expected insert error without table")
	}
}

func TestConnect_NoCandidates_Unavailable(t *testing.T) {
	s := Connect(context.Background())
	if s.Available() {
		t.Fatalf("expected Unavailable")
	}
	if _, ok := s.(Unavailable); !ok {
		t.Fatalf("expected Unavailable variant, got %T", s)
	}
}

func TestConnect_FallsThroughInPriorityOrder(t *testing.T) {
	var tried []string
	failing := Candidate{Name: "broken", Open: func(context.Context) (*gorm.DB, error) {
		tried = append(tried, "broken")
		return nil, errors.New("driver missing")
	}}
	path := filepath.Join(t.TempDir(), "sub.db")
	embedded := Candidate{Name: BackendSQLite, Open: func(context.Context) (*gorm.DB, error) {
		tried = append(tried, BackendSQLite)
		return OpenSQLite(path)
	}}
	never := Candidate{Name: "never", Open: func(context.Context) (*gorm.DB, error) {
		t.Fatalf("candidates after the first success must not be tried")
		return nil, nil
	}}

	s := Connect(context.Background(), failing, embedded, never)
	t.Cleanup(func() { _ = s.Close() })

	if !s.Available() || s.Backend() != BackendSQLite {
		t.Fatalf("expected sqlite backend, got available=%v backend=%q", s.Available(), s.Backend())
	}
	if len(tried) != 2 || tried[0] != "broken" || tried[1] != BackendSQLite {
		t.Fatalf("unexpected try order: %v", tried)
	}
}

func TestConnect_TwiceKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub.db")
	cand := Candidate{Name: BackendSQLite, Open: func(context.Context) (*gorm.DB, error) { return OpenSQLite(path) }}
	ctx := context.Background()

	first := Connect(ctx, cand)
	if err := first.Insert(ctx, domain.Submission{Name: "kept"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_ = first.Close()

	second := Connect(ctx, cand)
	t.Cleanup(func() { _ = second.Close() })
	rows := second.SelectAll(ctx)
	if len(rows) != 1 || rows[0].Name != "kept" {
		t.Fatalf("rows after re-init: %+v", rows)
	}
}

func TestCandidates_Order(t *testing.T) {
	base := config.Config{DB: config.DBConfig{Driver: "mysql", Port: 3306, SQLiteEnabled: true, SQLitePath: "x.db", ConnectTimeout: time.Second}}

	names := func(cs []Candidate) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.Name)
		}
		return out
	}

	if got := names(Candidates(base)); len(got) != 1 || got[0] != BackendSQLite {
		t.Fatalf("no host: %v", got)
	}

	withHost := base
	withHost.DB.Host = "db"
	if got := names(Candidates(withHost)); len(got) != 2 || got[0] != BackendMySQL || got[1] != BackendSQLite {
		t.Fatalf("mysql host: %v", got)
	}

	pg := withHost
	pg.DB.Driver = "postgres"
	if got := names(Candidates(pg)); len(got) != 2 || got[0] != BackendPostgres {
		t.Fatalf("postgres host: %v", got)
	}

	off := base
	off.DB.SQLiteEnabled = false
	if got := Candidates(off); len(got) != 0 {
		t.Fatalf("everything disabled: %v", names(got))
	}
}

func TestCandidates_UnreachableNetworkFallsBackToSQLite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := config.Config{DB: config.DBConfig{
		Driver:         "mysql",
		Host:           "127.0.0.1",
		Port:           1, // nothing listens here
		User:           "root",
		Name:           "portfolio",
		ConnectTimeout: 500 * time.Millisecond,
		SQLiteEnabled:  true,
		SQLitePath:     filepath.Join(dir, "sub.db"),
	}}

	s := Connect(context.Background(), Candidates(cfg)...)
	t.Cleanup(func() { _ = s.Close() })

	if s.Backend() != BackendSQLite {
		t.Fatalf("expected sqlite fallback, got %q", s.Backend())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("sqlite candidate should create its directory: %v", err)
	}
}

func TestCandidates_TracingInstrumentsHandle(t *testing.T) {
	cfg := config.Config{
		DB: config.DBConfig{
			SQLiteEnabled: true,
			SQLitePath:    filepath.Join(t.TempDir(), "traced.db"),
		},
		OTEL: config.OTELConfig{Enabled: true},
	}

	s := Connect(context.Background(), Candidates(cfg)...)
	t.Cleanup(func() { _ = s.Close() })

	av, ok := s.(*Available)
	if !ok {
		t.Fatalf("expected sqlite to be available, got %T", s)
	}
	if len(av.DB().Config.Plugins) == 0 {
		t.Fatalf("tracing plugin not registered")
	}
	if err := av.Insert(context.Background(), domain.Submission{Name: "traced"}); err != nil {
		t.Fatalf("insert through instrumented handle: %v", err)
	}
	if rows := av.SelectAll(context.Background()); len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestConnect_LogsExistingRowCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub.db")
	cand := Candidate{Name: BackendSQLite, Open: func(context.Context) (*gorm.DB, error) { return OpenSQLite(path) }}
	ctx := context.Background()

	first := Connect(ctx, cand)
	for _, name := range []string{"a", "b"} {
		if err := first.Insert(ctx, domain.Submission{Name: name}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	_ = first.Close()

	var buf bytes.Buffer
	old := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = old })

	second := Connect(ctx, cand)
	t.Cleanup(func() { _ = second.Close() })

	if !bytes.Contains(buf.Bytes(), []byte(`"rows":2`)) || !bytes.Contains(buf.Bytes(), []byte(`"backend":"sqlite"`)) {
		t.Fatalf("startup log = %s", buf.String())
	}
}
