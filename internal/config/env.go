package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// LoadEnvSet builds the environment used for overrides: values from the
// dotenv file at path (if it exists) overlaid by the process environment.
func LoadEnvSet(path string) (env.EnvSet, error) {
	es := env.EnvSet{}

	if path != "" {
		dotenv, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range dotenv {
				es[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	procEnv, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	for k, v := range procEnv {
		es[k] = v
	}
	return es, nil
}

// ApplyEnv overrides config values with NTFY_* variables from es. Variables
// that are not set leave the decoded value untouched.
func ApplyEnv(cfg *Config, es env.EnvSet) error {
	sections := []struct {
		name string
		v    any
	}{
		{"ntfy_module", &cfg.Ntfy},
		{"log", &cfg.Log},
		{"metrics", &cfg.Metrics},
		{"history", &cfg.History},
	}
	for _, s := range sections {
		if err := env.Unmarshal(es, s.v); err != nil {
			return fmt.Errorf("config: env overrides for [%s]: %w", s.name, err)
		}
	}
	return nil
}
