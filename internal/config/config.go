package config

import (
	"strings"
	"time"
)

type Config struct {
	LocalDBPath   string        `env:"LOCAL_DB_PATH"`
	DatabaseDSN   string        `env:"DATABASE_DSN"`
	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT"`

	AccountID   string `env:"ACCOUNT_ID"`
	AccessToken string `env:"ACCESS_TOKEN"`
	JWTSecret   string `env:"JWT_SECRET"`

	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"`
	S3RootUser      string `env:"S3_ROOT_USER"`
	S3RootPassword  string `env:"S3_ROOT_PASSWORD"`
	S3BaseEndpoint  string `env:"S3_BASE_ENDPOINT"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	LogLevel string `env:"LOG_LEVEL"`
}

// LoadDefaults sets values that work for a purely local session.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "starkeeper.db"
	c.RemoteTimeout = 10 * time.Second
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
}

// RemoteConfigured reports whether DatabaseDSN names a Postgres server.
func (c *Config) RemoteConfigured() bool {
	dsn := strings.TrimSpace(c.DatabaseDSN)
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment, and finally the flags in args. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
