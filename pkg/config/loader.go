package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// EnvFileVar names the environment variable that points at an optional
// dotenv file.
const EnvFileVar = "ENV_FILE"

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
// If ENV_FILE is set, that dotenv file is read first; real environment
// variables take precedence over its entries.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"APP_PORT" envDefault:"8000"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	return LoadFile(cfg, os.Getenv(EnvFileVar))
}

// LoadFile is Load with an explicit dotenv path. An empty path skips the file.
func LoadFile(cfg any, path string) error {
	environ := env.ToMap(os.Environ())

	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		for k, v := range fileVars {
			if _, ok := environ[k]; !ok {
				environ[k] = v
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
