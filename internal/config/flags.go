package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/starkeeper/internal/flagx"
)

var flagNames = []string{"-l", "-d", "-t", "-a", "-k", "-s", "-b", "-g", "-u", "-p", "-e", "-w", "-v"}

// parseFlags overlays the flags it knows; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("starkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database file")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "remote database DSN")
	fs.DurationVar(&cfg.RemoteTimeout, "t", cfg.RemoteTimeout, "remote call timeout")
	fs.StringVar(&cfg.AccountID, "a", cfg.AccountID, "account id")
	fs.StringVar(&cfg.AccessToken, "k", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "access token secret")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 secret key")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3PublicBaseURL, "w", cfg.S3PublicBaseURL, "public base URL of uploaded images")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
