package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read when no explicit path is given.
const DefaultEnvFile = ".env"

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error; the boolean reports whether a file was read.
func LoadEnvFile(path string) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultEnvFile
	}
	expanded, err := expandPath(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat env file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("env file %q is a directory", expanded)
	}
	if err := godotenv.Load(expanded); err != nil {
		return false, fmt.Errorf("load env file: %w", err)
	}
	return true, nil
}
