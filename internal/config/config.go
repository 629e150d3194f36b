package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config is loaded from the environment. Defaults suit a local single-user
// install with the datastore next to the binary.
type Config struct {
	Host        string `env:"HOST" envDefault:"127.0.0.1"`
	Port        int    `env:"PORT" envDefault:"5000"`
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/assistant.json"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	Executor    string `env:"EXECUTOR" envDefault:"local"` // "local" or "echo"
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}
	return cfg
}
