package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/starkeeper/internal/flagx"
	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

// jsonConfig is the file shape. Pointers tell absent keys apart from empty
// values, so a file only overrides what it mentions.
type jsonConfig struct {
	LocalDBPath   *string         `json:"local_db_path"`
	DatabaseDSN   *string         `json:"database_dsn"`
	RemoteTimeout *timex.Duration `json:"remote_timeout"`

	AccountID   *string `json:"account_id"`
	AccessToken *string `json:"access_token"`
	JWTSecret   *string `json:"jwt_secret"`

	S3Bucket        *string `json:"s3_bucket"`
	S3Region        *string `json:"s3_region"`
	S3RootUser      *string `json:"s3_root_user"`
	S3RootPassword  *string `json:"s3_root_password"`
	S3BaseEndpoint  *string `json:"s3_base_endpoint"`
	S3PublicBaseURL *string `json:"s3_public_base_url"`

	LogLevel *string `json:"log_level"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&cfg.LocalDBPath, jc.LocalDBPath)
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	if jc.RemoteTimeout != nil {
		cfg.RemoteTimeout = jc.RemoteTimeout.Duration
	}
	set(&cfg.AccountID, jc.AccountID)
	set(&cfg.AccessToken, jc.AccessToken)
	set(&cfg.JWTSecret, jc.JWTSecret)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3RootUser, jc.S3RootUser)
	set(&cfg.S3RootPassword, jc.S3RootPassword)
	set(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	set(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	set(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
