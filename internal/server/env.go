package server

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Call this function to load the .env file and set the default values.
func LoadEnv(path string, serverVersion string) error {
	os.Setenv("SERVER_VERSION", serverVersion)

	if path != "nil" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return CheckEnvVars()
}

// Will return an error naming the first required env var that is not set.
func CheckEnvVars() error {
	required := []string{"ENV", "PORT", "STORE", "SESSIONS", "ALLOW_ORIGIN"}

	switch os.Getenv("STORE") {
	case "sqlite":
		required = append(required, "SQLITE_PATH")
	default:
		required = append(required, "DB_USER", "DB_PASS", "DB_NAME", "DB_HOST")
	}

	if os.Getenv("SESSIONS") == "redis" {
		required = append(required, "REDIS_HOST")
	}

	for _, key := range required {
		if err := CheckEnvVar(key); err != nil {
			return err
		}
	}

	return nil
}

func CheckEnvVar(key string) error {
	if os.Getenv(key) == "" {
		return fmt.Errorf("environment variable %v must be set", key)
	}

	return nil
}
