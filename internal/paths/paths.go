package paths

import (
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the config directory when set.
const EnvConfigDir = "CITYSEARCH_HOME"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ConfigDir returns ~/.citysearch, or $CITYSEARCH_HOME when set.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".citysearch")
}

// ConfigFile returns ~/.citysearch/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns ~/.citysearch/citysearch.log, where the interactive search
// logs while it owns the terminal.
func LogFile() string {
	return filepath.Join(ConfigDir(), "citysearch.log")
}
