package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend selectors. The object store and the record store are both
// capabilities with more than one implementation; which one runs is decided
// here, once, at process start.
const (
	StorageS3  = "s3"
	StorageGCS = "gcs"

	RecordsPostgres  = "postgres"
	RecordsFirestore = "firestore"
)

// Config holds everything resolved at startup. Nothing in the pipeline
// re-reads the environment or re-discovers tool paths per call.
type Config struct {
	StorageBackend string
	Bucket         string
	Prefix         string
	S3Region       string
	S3Endpoint     string // optional, for S3-compatible stores

	RecordBackend       string
	DatabaseURL         string
	MigrationsDir       string
	FirestoreProjectID  string
	FirestoreCollection string

	ScratchDir   string
	FFprobePath  string
	ProbeTimeout time.Duration
	Concurrency  int

	HTTPPort int
}

// Load reads the configuration from the environment, applying defaults and
// validating what the selected backends require. A .env file is honored when
// present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StorageBackend:      GetEnv("STORAGE_BACKEND", StorageS3),
		Bucket:              GetEnv("BUCKET", ""),
		Prefix:              GetEnv("BUCKET_PREFIX", "Sections"),
		S3Region:            GetEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:          GetEnv("S3_ENDPOINT", ""),
		RecordBackend:       GetEnv("RECORD_BACKEND", RecordsPostgres),
		DatabaseURL:         GetEnv("DATABASE_URL", ""),
		MigrationsDir:       GetEnv("MIGRATIONS_DIR", "migrations"),
		FirestoreProjectID:  GetEnv("PROJECT_ID", ""),
		FirestoreCollection: GetEnv("FIRESTORE_COLLECTION", "file_contents"),
		ScratchDir:          GetEnv("SCRATCH_DIR", filepath.Join(os.TempDir(), "content-parser")),
		FFprobePath:         GetEnv("FFPROBE_PATH", ""),
	}

	if cfg.Bucket == "" {
		return nil, fmt.Errorf("BUCKET environment variable must be set")
	}

	switch cfg.StorageBackend {
	case StorageS3, StorageGCS:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	switch cfg.RecordBackend {
	case RecordsPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when RECORD_BACKEND=postgres")
		}
	case RecordsFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("PROJECT_ID must be set when RECORD_BACKEND=firestore")
		}
	default:
		return nil, fmt.Errorf("unknown RECORD_BACKEND %q", cfg.RecordBackend)
	}

	var err error
	if cfg.ProbeTimeout, err = durationEnv("PROBE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = intEnv("CONCURRENCY", 1); err != nil {
		return nil, err
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("CONCURRENCY must be at least 1")
	}
	if cfg.HTTPPort, err = intEnv("HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	if cfg.FFprobePath == "" {
		cfg.FFprobePath = lookupFFprobe()
	}

	return cfg, nil
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// lookupFFprobe resolves the probe binary from PATH, falling back to the
// conventional install location. Resolution happens once; the media extractor
// receives the result and never searches again.
func lookupFFprobe() string {
	if path, err := exec.LookPath("ffprobe"); err == nil {
		return path
	}
	return "/usr/local/bin/ffprobe"
}
