/*
Package configs is responsible for loading and parsing the application's configuration settings.

All values come from environment variables (a local .env file is honored in
development), covering the server itself, the room/connection timeouts, and
the file storage backend.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the two expiry classes and the upload sweep.
const (
	DefaultSessionTimeout    = 30 * time.Minute
	DefaultInactivityTimeout = 15 * time.Minute
	DefaultFileMaxAge        = 24 * time.Hour
	DefaultSweepInterval     = 1 * time.Hour
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Room Session Settings
	SessionTimeout    time.Duration
	InactivityTimeout time.Duration

	// SurfaceAuthErrors switches non-admin mutation attempts from silent
	// no-ops to explicit error events. Off by default for client
	// compatibility.
	SurfaceAuthErrors bool

	// Storage Settings
	StorageBackend string
	UploadDir      string
	PublicDir      string
	FileMaxAge     time.Duration
	SweepInterval  time.Duration

	// S3 Storage Settings (required only when StorageBackend is "s3")
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LoadConfig reads and parses the application configuration from environment
// variables, applying defaults and validating values. A .env file in the
// working directory is loaded first if present.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Room Session Settings ---
	cfg.SessionTimeout, err = durationEnv("SESSION_TIMEOUT", DefaultSessionTimeout)
	if err != nil {
		return nil, err
	}

	cfg.InactivityTimeout, err = durationEnv("INACTIVITY_TIMEOUT", DefaultInactivityTimeout)
	if err != nil {
		return nil, err
	}

	cfg.SurfaceAuthErrors = os.Getenv("SURFACE_AUTH_ERRORS") == "true"

	// --- Storage Settings ---
	cfg.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if cfg.StorageBackend == "" {
		cfg.StorageBackend = "disk"
	}
	if cfg.StorageBackend != "disk" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q (expected \"disk\" or \"s3\")", cfg.StorageBackend)
	}

	cfg.UploadDir = os.Getenv("UPLOAD_DIR")
	if cfg.UploadDir == "" {
		cfg.UploadDir = "public/uploads"
	}

	cfg.PublicDir = os.Getenv("PUBLIC_DIR")
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public"
	}

	cfg.FileMaxAge, err = durationEnv("FILE_MAX_AGE", DefaultFileMaxAge)
	if err != nil {
		return nil, err
	}

	cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", DefaultSweepInterval)
	if err != nil {
		return nil, err
	}

	// --- S3 Storage Settings ---
	if cfg.StorageBackend == "s3" {
		cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
		if cfg.S3BucketName == "" {
			return nil, fmt.Errorf("S3_BUCKET_NAME environment variable is required for the s3 storage backend")
		}

		cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required for the s3 storage backend")
		}

		cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
		if cfg.S3AccessKeyID == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID environment variable is required for S3 authentication")
		}

		cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
		if cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_SECRET_ACCESS_KEY environment variable is required for S3 authentication")
		}
	}

	return cfg, nil
}

// durationEnv parses a duration environment variable, falling back to def
// when unset.
func durationEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %s", name, d)
	}

	return d, nil
}
