package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "gest/config.yaml"

// ResolvePath returns the catalog file path: explicit if non-empty,
// otherwise $XDG_CONFIG_HOME/gest/config.yaml, falling back to
// $HOME/.config/gest/config.yaml. Returns a setup error when neither
// environment variable is set and no explicit path was given.
func ResolvePath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, defaultConfigRelPath), nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", defaultConfigRelPath), nil
	}
	return "", fmt.Errorf("no config file given and neither XDG_CONFIG_HOME nor HOME is set")
}
