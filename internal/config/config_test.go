package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:          ":8080",
		JWTSecret:     "strongsecret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "jobboard.db",
		TokenDuration: 1 * time.Hour,
		Storage:       config.StorageConfig{Driver: "memory"},
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("JOBBOARD_ENV", "production")
	defer os.Unsetenv("JOBBOARD_ENV")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("JOBBOARD_ENV", "development")
	defer os.Unsetenv("JOBBOARD_ENV")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_StorageDriver(t *testing.T) {
	cases := []struct {
		name    string
		storage config.StorageConfig
		wantErr bool
	}{
		{name: "EmptyDefaultsToMemory", storage: config.StorageConfig{}, wantErr: false},
		{name: "Memory", storage: config.StorageConfig{Driver: "memory"}, wantErr: false},
		{name: "MinioMissingEndpoint", storage: config.StorageConfig{Driver: "minio", Bucket: "b", AccessKey: "a", SecretKey: "s"}, wantErr: true},
		{name: "MinioMissingKeys", storage: config.StorageConfig{Driver: "minio", Endpoint: "localhost:9000", Bucket: "b"}, wantErr: true},
		{name: "MinioComplete", storage: config.StorageConfig{Driver: "minio", Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s"}, wantErr: false},
		{name: "Unknown", storage: config.StorageConfig{Driver: "gcs"}, wantErr: true},
		{name: "ExpiryTooLong", storage: config.StorageConfig{Driver: "memory", PresignExpiry: 8 * 24 * time.Hour}, wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage = c.storage
			err := cfg.Validate()
			if c.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_DefaultsPopulated(t *testing.T) {
	cfg := validConfig()
	cfg.APITimeout = 0
	cfg.TokenDuration = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("expected default APITimeout, got %v", cfg.APITimeout)
	}
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("expected default TokenDuration, got %v", cfg.TokenDuration)
	}
	if cfg.Storage.PresignExpiry <= 0 {
		t.Fatalf("expected Storage.PresignExpiry to be > 0")
	}
	if cfg.Jobs.Workers == 0 {
		t.Fatalf("expected Jobs.Workers default to be non-zero")
	}
	if cfg.Jobs.PollInterval <= 0 {
		t.Fatalf("expected Jobs.PollInterval default to be > 0")
	}
	if cfg.Jobs.Lease != 15*time.Minute {
		t.Fatalf("unexpected Jobs.Lease default: %v", cfg.Jobs.Lease)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	_ = os.Unsetenv("JOBBOARD_ADDR")
	_ = os.Unsetenv("JOBBOARD_JWT_SECRET")
	_ = os.Unsetenv("JOBBOARD_DATABASE_PATH")
	_ = os.Unsetenv("JOBBOARD_STORAGE_DRIVER")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "supersecretkey")
	}
	if cfg.DatabasePath != "jobboard.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "jobboard.db")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 1*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 1*time.Hour)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("unexpected Storage.Driver: got %q want %q", cfg.Storage.Driver, "memory")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("JOBBOARD_ADDR", ":7070")
	t.Setenv("JOBBOARD_MIGRATE_ON_START", "true")
	t.Setenv("JOBBOARD_STORAGE_USE_SSL", "false")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("unexpected Addr: %q", cfg.Addr)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected MigrateOnStart from env")
	}
	if cfg.Storage.UseSSL {
		t.Fatalf("expected UseSSL false from env")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	f, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\ntoken_duration: \"2h\"\n" +
		"storage:\n  driver: minio\n  endpoint: \"localhost:9000\"\n  bucket: docs\n  presign_expiry: \"10m\"\n" +
		"jobs:\n  workers: 3\n")
	if err := os.WriteFile(f.Name(), content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(f.Name())
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if cfg.Storage.Driver != "minio" || cfg.Storage.Bucket != "docs" || cfg.Storage.PresignExpiry != 10*time.Minute {
		t.Fatalf("unexpected Storage: %#v", cfg.Storage)
	}
	if cfg.Jobs.Workers != 3 {
		t.Fatalf("unexpected Jobs.Workers: %d", cfg.Jobs.Workers)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	f, err := os.CreateTemp("", "bad-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(f.Name())
	f.Close()

	if err := os.WriteFile(f.Name(), []byte("::: not yaml :::"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(f.Name()); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
