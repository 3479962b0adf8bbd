package client

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL = "http://localhost/api" // Origin used when nothing else is configured.
	BaseURLEnv     = "MISSIONS_BASE_URL"    // Env var overriding the origin.
	DefaultEnvFile = ".env"
)

// Config is the single configuration value shared by every API call.
type Config struct {
	BaseURL string
}

// LoadConfig reads envFile if it exists, then builds a Config from the
// environment. Use "nil" as the path to skip the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "nil" && envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{BaseURL: DefaultBaseURL}
	if v := os.Getenv(BaseURLEnv); v != "" {
		cfg.BaseURL = v
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}
