//go:build !windows

package app

import (
	"os"
	"path/filepath"
)

func defaultConfigurationFile() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appDirectoryName, "configuration.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "configuration.yml"
	}

	return filepath.Join(home, ".config", appDirectoryName, "configuration.yml")
}
