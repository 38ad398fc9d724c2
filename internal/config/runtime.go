package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	runtimePathEnv     = "MINDFUL_RUNTIME_PATH"
	debugEnv           = "MINDFUL_DEBUG"
	defaultRuntimePath = ".mindful"
)

// GetRuntimePath locates the runtime directory before any config struct is
// parsed, since the .env inside it feeds the parsing.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv(runtimePathEnv))
}

// IsDebug reports whether MINDFUL_DEBUG is set to a true value.
func IsDebug() bool {
	on, _ := strconv.ParseBool(os.Getenv(debugEnv))
	return on
}

// resolveRuntimePath anchors relative paths at the user's home directory.
func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimePath
	}
	if filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path)
}
