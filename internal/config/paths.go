package config

import (
	"os"
	"path/filepath"
)

// EnvHome overrides the directory relcut reads its configuration from.
const EnvHome = "RELCUT_HOME"

// Dir returns the directory holding relcut configuration.
func Dir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use a dot-directory in the user's home on all platforms
	return filepath.Join(home, ".relcut"), nil
}

// File returns the full path to the optional config file. Callers should
// treat a missing file as "no configuration", not an error.
func File() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}
