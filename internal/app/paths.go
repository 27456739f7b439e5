package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	appDirName = "serenitree"
	dbFileName = "serenitree.db"

	EnvAPIURL = "SERENITREE_API_URL"
	EnvDB     = "SERENITREE_DB"
)

// DefaultDBPath honours SERENITREE_DB before falling back to the user
// config directory.
func DefaultDBPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvDB)); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}

// LoadEnv reads .env files into the process environment. Variables already
// set win. Missing files are not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
