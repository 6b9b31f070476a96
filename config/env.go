package config

import "os"

// Environment variables used as defaults for the command line flags.
const (
	EnvConfig   = "MIMICA_CONFIG"
	EnvCascade  = "MIMICA_CASCADE"
	EnvLogLevel = "MIMICA_LOG_LEVEL"
)

// Getenv returns the value of the environment variable key.
// Falls back to the provided default if not set.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
