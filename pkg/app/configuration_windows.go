//go:build windows

package app

import (
	"os"
	"path/filepath"
)

func defaultConfigurationFile() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		fs, err := os.Stat(appData)
		if err == nil && fs.IsDir() {
			return filepath.Join(appData, appDirectoryName, "configuration.yml")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "configuration.yml"
	}

	return filepath.Join(home, ".config", appDirectoryName, "configuration.yml")
}
