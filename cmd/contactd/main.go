// Command contactd runs the contact-form submission server.
//
// @title                      Contact Submission API
// @version                    1.0
// @description                Accepts contact-form submissions, keeps them in a JSON backup file and an optional relational store, and serves an authenticated admin view.
// @BasePath                   /
// @securityDefinitions.basic  BasicAuth
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-contact-backend/internal/backup"
	"github.com/tbourn/go-contact-backend/internal/config"
	httpapi "github.com/tbourn/go-contact-backend/internal/http"
	"github.com/tbourn/go-contact-backend/internal/observability"
	"github.com/tbourn/go-contact-backend/internal/repo"
	"github.com/tbourn/go-contact-backend/internal/services"
	"github.com/tbourn/go-contact-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownTracing, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return err
	}

	if cfg.Admin.UsesDefaults() {
		log.Warn().Msg("admin viewer is using the default credentials; set ADMIN_USER and ADMIN_PASS")
	}

	store := backup.New(cfg.DataFile)
	if err := store.Init(); err != nil {
		return err
	}
	log.Info().Str("file", store.Path()).Int("submissions", store.Count()).Msg("backup store ready")

	secondary := repo.Connect(ctx, repo.Candidates(cfg)...)
	svc := services.NewSubmissionService(store, secondary)

	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("secondary", secondary.Backend()).
			Str("version", ver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	waitInserts(shutdownCtx, svc)
	if err := secondary.Close(); err != nil {
		log.Error().Err(err).Msg("close secondary store")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	return nil
}

// waitInserts drains in-flight secondary inserts, giving up at ctx's deadline.
func waitInserts(ctx context.Context, svc *services.SubmissionService) {
	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	start := time.Now()
	select {
	case <-done:
		log.Debug().Dur("waited", time.Since(start)).Msg("secondary inserts drained")
	case <-ctx.Done():
		log.Warn().Msg("gave up waiting for secondary inserts")
	}
}
