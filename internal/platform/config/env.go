// Package config loads service settings from MILLIONAIRE_* variables and
// reports fatal command errors.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from the process environment.
func ParseEnv(target any) error {
	return parseEnv(target, env.Options{})
}

// ParseEnvFrom fills target from environ instead of the process environment.
func ParseEnvFrom(target any, environ map[string]string) error {
	return parseEnv(target, env.Options{Environment: environ})
}

func parseEnv(target any, opts env.Options) error {
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
