package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	defaultDataDir = "./data"
	defaultPort    = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail      string
	AdminPassword   string
	SessionSecret   string
	AnthropicAPIKey string
	DataDir         string
	Port            string
	AppEnv          string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// Missing .env files are fine; production uses real env injection.
	_ = godotenv.Load()

	cfg := Config{
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		DataDir:         os.Getenv("DATA_DIR"),
		Port:            os.Getenv("PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set; the admin panel will reject all logins")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}
	if cfg.AnthropicAPIKey == "" {
		log.Print("warning: ANTHROPIC_API_KEY is not set; distance estimation will fail")
	}

	return cfg
}

// IsDev reports whether the app runs outside production.
func (c Config) IsDev() bool {
	return c.AppEnv != "production"
}

// MachinesPath is the machines collection document.
func (c Config) MachinesPath() string {
	return filepath.Join(c.DataDir, "machines.json")
}

// UsersPath is the users collection document.
func (c Config) UsersPath() string {
	return filepath.Join(c.DataDir, "users.json")
}
