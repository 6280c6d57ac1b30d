package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	Storage        StorageConfig `yaml:"storage"`
	Jobs           JobsConfig    `yaml:"jobs"`
}

// StorageConfig selects and configures the object store holding uploaded
// documents. Driver is "minio" (any S3-compatible endpoint) or "memory".
type StorageConfig struct {
	Driver        string        `yaml:"driver"`
	Endpoint      string        `yaml:"endpoint"`
	AccessKey     string        `yaml:"access_key"`
	SecretKey     string        `yaml:"secret_key"`
	Bucket        string        `yaml:"bucket"`
	Region        string        `yaml:"region"`
	UseSSL        bool          `yaml:"use_ssl"`
	PresignExpiry time.Duration `yaml:"presign_expiry"`
	// PublicBaseURL is the prefix stored file URLs start with. Empty means
	// the endpoint's path-style bucket URL.
	PublicBaseURL string `yaml:"public_base_url"`
}

type JobsConfig struct {
	Workers      int           `yaml:"workers"`
	PollInterval time.Duration `yaml:"poll_interval"`
	// Lease bounds how long a job may stay running before it is retried.
	Lease time.Duration `yaml:"lease"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:           getEnv("JOBBOARD_ADDR", ":8080"),
		JWTSecret:      getEnv("JOBBOARD_JWT_SECRET", insecureJWTSecret),
		APITimeout:     apiTimeout,
		DatabasePath:   getEnv("JOBBOARD_DATABASE_PATH", "jobboard.db"),
		TokenDuration:  tokenDuration,
		MigrateOnStart: getEnvBool("JOBBOARD_MIGRATE_ON_START", false),
		Storage: StorageConfig{
			Driver:        getEnv("JOBBOARD_STORAGE_DRIVER", "memory"),
			Endpoint:      getEnv("JOBBOARD_STORAGE_ENDPOINT", ""),
			AccessKey:     getEnv("JOBBOARD_STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("JOBBOARD_STORAGE_SECRET_KEY", ""),
			Bucket:        getEnv("JOBBOARD_STORAGE_BUCKET", "jobboard"),
			Region:        getEnv("JOBBOARD_STORAGE_REGION", ""),
			UseSSL:        getEnvBool("JOBBOARD_STORAGE_USE_SSL", true),
			PublicBaseURL: getEnv("JOBBOARD_STORAGE_PUBLIC_BASE_URL", ""),
			PresignExpiry: 5 * time.Minute,
		},
		Jobs: JobsConfig{
			Workers:      2,
			PollInterval: 500 * time.Millisecond,
			Lease:        15 * time.Minute,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the loaded values and fills defaults for zero fields.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.DatabasePath == "" {
		return errors.New("database_path is required")
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.JWTSecret == insecureJWTSecret && os.Getenv("JOBBOARD_ENV") != "development" {
		return errors.New("jwt_secret uses the insecure default; set JOBBOARD_JWT_SECRET or JOBBOARD_ENV=development")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.TokenDuration <= 0 {
		c.TokenDuration = time.Hour
	}

	switch c.Storage.Driver {
	case "", "memory":
		c.Storage.Driver = "memory"
	case "minio":
		if c.Storage.Endpoint == "" || c.Storage.Bucket == "" {
			return errors.New("storage.endpoint and storage.bucket are required for the minio driver")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return errors.New("storage.access_key and storage.secret_key are required for the minio driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.PresignExpiry <= 0 {
		c.Storage.PresignExpiry = 5 * time.Minute
	}
	if c.Storage.PresignExpiry > 7*24*time.Hour {
		return errors.New("storage.presign_expiry must not exceed 7 days")
	}

	if c.Jobs.Workers <= 0 {
		c.Jobs.Workers = 2
	}
	if c.Jobs.PollInterval <= 0 {
		c.Jobs.PollInterval = 500 * time.Millisecond
	}
	if c.Jobs.Lease <= 0 {
		c.Jobs.Lease = 15 * time.Minute
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
