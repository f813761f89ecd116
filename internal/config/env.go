package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "STARKEEPER_"

// parseEnv overlays variables that are set; unset ones leave cfg alone.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
