package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LocalDirName is the per-directory data folder.
const LocalDirName = ".nexus"

// GetGlobalConfigDir returns the path to the global configuration directory (~/.nexus).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LocalDirName), nil
}

// GetDataDir returns the directory holding the database and crash logs.
// Resolution order (first match wins):
// 1. Explicit config via "data.dir" (Viper/env/flag)
// 2. Local directory: ./.nexus (if exists)
// 3. XDG_DATA_HOME/nexus (if XDG_DATA_HOME is set)
// 4. Global fallback: ~/.nexus
func GetDataDir() string {
	if dir := viper.GetString("data.dir"); dir != "" {
		return dir
	}

	if info, err := os.Stat(LocalDirName); err == nil && info.IsDir() {
		return LocalDirName
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "nexus")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./" + LocalDirName
	}
	return dir
}

// GetDBPath returns the SQLite database path, "data.db" or nexus.db in the
// data directory.
func GetDBPath() string {
	if p := viper.GetString("data.db"); p != "" {
		return p
	}
	return filepath.Join(GetDataDir(), "nexus.db")
}
