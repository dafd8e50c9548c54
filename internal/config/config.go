// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, storage locations, the optional relational
// database, admin credentials, and observability.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default admin credentials. They let the service run unconfigured, which is
// convenient for a local tool and a known weakness anywhere else.
const (
	DefaultAdminUser = "admin"
	DefaultAdminPass = "password"
)

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-contact-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig describes the relational backends tried for the secondary store.
// The networked database is only attempted when Host is set.
type DBConfig struct {
	Driver         string        // mysql|postgres
	Host           string        // DB_HOST; empty disables the networked backend
	Port           int           // DB_PORT; 0 means the driver default
	User           string        // DB_USER
	Password       string        // DB_PASSWORD
	Name           string        // DB_NAME
	ConnectTimeout time.Duration // DB_CONNECT_TIMEOUT

	SQLiteEnabled bool   // SQLITE_ENABLED
	SQLitePath    string // DB_PATH
}

// AdminConfig holds the credentials guarding the admin viewer.
type AdminConfig struct {
	User          string // ADMIN_USER
	Pass          string // ADMIN_PASS
	PassBcrypt    string // ADMIN_PASS_BCRYPT, takes precedence over Pass
	Realm         string // ADMIN_REALM
	RequireCustom bool   // ADMIN_REQUIRE_CUSTOM
}

// UsesDefaults reports whether the admin gate still accepts the built-in
// credential pair.
func (a AdminConfig) UsesDefaults() bool {
	return a.User == DefaultAdminUser && a.PassBcrypt == "" && a.Pass == DefaultAdminPass
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // e.g. 10s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route

	// Storage
	DataFile string // JSON backup file
	DB       DBConfig

	// Admin viewer
	Admin AdminConfig

	// Web protection
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),

		// Storage
		DataFile: getenv("DATA_FILE", "data/submissions.json"),
		DB: DBConfig{
			Driver:         strings.ToLower(getenv("DB_DRIVER", "mysql")),
			Host:           strings.TrimSpace(getenv("DB_HOST", "")),
			Port:           getint("DB_PORT", 0),
			User:           getenv("DB_USER", "root"),
			Password:       getenv("DB_PASSWORD", ""),
			Name:           getenv("DB_NAME", "portfolio"),
			ConnectTimeout: getdur("DB_CONNECT_TIMEOUT", 5*time.Second),
			SQLiteEnabled:  getbool("SQLITE_ENABLED", true),
			SQLitePath:     getenv("DB_PATH", "data/submissions.db"),
		},

		// Admin viewer
		Admin: AdminConfig{
			User:          getenv("ADMIN_USER", DefaultAdminUser),
			Pass:          getenv("ADMIN_PASS", DefaultAdminPass),
			PassBcrypt:    getenv("ADMIN_PASS_BCRYPT", ""),
			Realm:         getenv("ADMIN_REALM", "Submissions"),
			RequireCustom: getbool("ADMIN_REQUIRE_CUSTOM", false),
		},

		// Web protection
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-contact-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" || cfg.DB.Driver == "pg" {
		cfg.DB.Driver = "postgres"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = defaultDBPort(cfg.DB.Driver)
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return cfg, errors.New("DATA_FILE must not be empty")
	}
	switch cfg.DB.Driver {
	case "mysql", "postgres":
	default:
		return cfg, fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Port <= 0 || cfg.DB.Port > 65535 {
		return cfg, errors.New("DB_PORT must be in [1,65535]")
	}
	if cfg.DB.ConnectTimeout <= 0 {
		return cfg, errors.New("DB_CONNECT_TIMEOUT must be > 0")
	}
	if cfg.DB.SQLiteEnabled && strings.TrimSpace(cfg.DB.SQLitePath) == "" {
		return cfg, errors.New("DB_PATH must not be empty when SQLITE_ENABLED is true")
	}
	if strings.TrimSpace(cfg.Admin.User) == "" {
		return cfg, errors.New("ADMIN_USER must not be empty")
	}
	if cfg.Admin.PassBcrypt == "" && cfg.Admin.Pass == "" {
		return cfg, errors.New("ADMIN_PASS or ADMIN_PASS_BCRYPT must be set")
	}
	if cfg.Admin.RequireCustom && cfg.Admin.UsesDefaults() {
		return cfg, errors.New("ADMIN_REQUIRE_CUSTOM is set but admin credentials are the defaults")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func defaultDBPort(driver string) int {
	if driver == "postgres" {
		return 5432
	}
	return 3306
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
