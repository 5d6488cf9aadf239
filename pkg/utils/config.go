package utils

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads an optional .env file from the given path and enables
// environment variable lookups through viper.
func LoadConfig(path string) {
	_ = godotenv.Load(filepath.Join(path, ".env"))
	viper.AutomaticEnv()
}
