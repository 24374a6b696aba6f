package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"leadtimes/internal"
)

type Config struct {
	DBPath     string
	OutputDir  string
	StoresPath string

	ServiceAccountFile string
	SheetsRateLimitRPS int
	SheetsTimeoutMs    int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		StoresPath: getEnv("STORES_CONFIG", filepath.Join(cwd, "config", "stores.json")),

		ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", filepath.Join(cwd, "service_account.json")),
		SheetsRateLimitRPS: getEnvInt("SHEETS_RATE_LIMIT_RPS", 2),
		SheetsTimeoutMs:    getEnvInt("SHEETS_TIMEOUT_MS", 30000),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

type storesFile struct {
	Stores []internal.Store `json:"stores"`
}

// LoadStores reads the per-store publishing configuration (sheet IDs, tab
// names, column letters, template paths) from the JSON file at StoresPath.
func (c Config) LoadStores() ([]internal.Store, error) {
	blob, err := os.ReadFile(c.StoresPath)
	if err != nil {
		return nil, fmt.Errorf("read stores config: %w", err)
	}

	var parsed storesFile
	if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, fmt.Errorf("parse stores config %s: %w", c.StoresPath, err)
	}
	if len(parsed.Stores) == 0 {
		return nil, fmt.Errorf("stores config %s lists no stores", c.StoresPath)
	}

	for _, store := range parsed.Stores {
		if strings.TrimSpace(store.Name) == "" {
			return nil, fmt.Errorf("stores config %s: store with empty name", c.StoresPath)
		}
		if len(store.Templates) == 0 {
			return nil, fmt.Errorf("stores config %s: store %s has no templates", c.StoresPath, store.Name)
		}
	}

	return parsed.Stores, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
