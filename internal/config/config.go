// internal/config/config.go
//
// Environment configuration for the crossclue binaries.
// A .env file in the working directory is loaded first (development only);
// real environment variables always win.

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every tunable read from the environment.
type Config struct {
	LogLevel      zerolog.Level
	Port          string
	Store         string // "sqlite" | "memory"
	DBPath        string
	LevelsFile    string // empty means the embedded catalog
	ClueAssetBase string
	JWTSecret     string
	ClientOrigin  string
	DailySalt     string
	SaveRetries   uint
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "5175"),
		Store:         getEnv("STORE", "sqlite"),
		DBPath:        getEnv("DB_PATH", "./data/crossclue.db"),
		LevelsFile:    os.Getenv("LEVELS_FILE"),
		ClueAssetBase: getEnv("CLUE_ASSET_BASE", "clues"),
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		SaveRetries:   3,
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	switch cfg.Store {
	case "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("STORE: unsupported backend %q", cfg.Store)
	}

	if v := os.Getenv("SAVE_RETRIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return Config{}, fmt.Errorf("SAVE_RETRIES: want a positive integer, got %q", v)
		}
		cfg.SaveRetries = uint(n)
	}
	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
