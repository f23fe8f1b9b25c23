// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config carries everything the server and CLI need to run.
type Config struct {
	Address   string `env:"ADDRESS" envDefault:":8080"`
	JWTSecret string `env:"JWT_SECRET,required"`

	MongoURI      string `env:"MONGODB_CONNECTION_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DBNAME" envDefault:"realtechee"`

	S3Bucket string `env:"S3_BUCKET"`
	S3Region string `env:"S3_REGION" envDefault:"us-west-1"`

	MaxFileSizeMB int64 `env:"MAX_FILE_SIZE_MB" envDefault:"15"`

	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile    string `env:"LOG_FILE"`
	LogMaxSize int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
}

// Load reads .env when present (missing files are fine) and parses the
// environment into a Config.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
