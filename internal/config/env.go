package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment holds the settings playprep reads from the process environment.
type Environment struct {
	Root             string `env:"PLAYPREP_ROOT"`
	TelemetryEnabled *bool  `env:"PLAYPREP_TELEMETRY_ENABLED"`
	AndroidHome      string `env:"ANDROID_HOME"`
	LocalAppData     string `env:"LOCALAPPDATA"`
	ADB              string `env:"PLAYPREP_ADB" envDefault:"adb"`
}

// LoadEnvironment parses the playprep environment variables.
func LoadEnvironment() (Environment, error) {
	e, err := env.ParseAs[Environment]()
	if err != nil {
		return Environment{}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

// LoadDotEnv loads <root>/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(root string) error {
	path := filepath.Join(root, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// SDKCandidates returns the directories that may hold an Android SDK, in lookup order.
func (e Environment) SDKCandidates() []string {
	var dirs []string
	if e.AndroidHome != "" {
		dirs = append(dirs, e.AndroidHome)
	}
	if e.LocalAppData != "" {
		dirs = append(dirs, filepath.Join(e.LocalAppData, "Android", "Sdk"))
	}
	return dirs
}
