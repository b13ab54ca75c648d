package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the standard locations of the CLI's files.
type Paths struct {
	Config string // ~/.config/orb
	State  string // ~/.local/state/orb
}

// GetPaths returns the standard paths, honouring the XDG variables.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "orb"),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "orb"),
	}
}

// LogDir returns the directory log files are written to.
func (p *Paths) LogDir() string {
	return filepath.Join(p.State, "log")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
