package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// LoadDotEnv loads .env and then .env.local from dir into the process
// environment. Variables already set are kept for .env; .env.local
// overrides them. Missing files are ignored.
func LoadDotEnv(fs afero.Fs, dir string) error {
	if err := applyDotEnv(fs, filepath.Join(dir, ".env"), false); err != nil {
		return err
	}
	return applyDotEnv(fs, filepath.Join(dir, ".env.local"), true)
}

func applyDotEnv(fs afero.Fs, path string, override bool) error {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for k, v := range vars {
		if _, exists := os.LookupEnv(k); exists && !override {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}
