package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// defaultDotEnv is read when no .env path is given.
const defaultDotEnv = ".env"

// LoadDotEnv exports the variables of a .env file into the process
// environment. Variables already set win over the file. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = defaultDotEnv
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig builds the AppConfig from an optional .env file and the
// environment.
func LoadConfig(envPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, fmt.Errorf("read environment: %w", err)
	}

	return envCfg.Normalize().ToAppConfig(), nil
}
