package ux

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the scribe home directory
const HomeEnv = "SCRIBE_HOME"

// Paths locates the files scribe keeps in its home directory
type Paths struct {
	Home string
}

// DiscoverHome returns $SCRIBE_HOME, or ~/.scribe
func DiscoverHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(userHome, ".scribe"), nil
}

// NewPaths returns the layout under home, discovering it when empty
func NewPaths(home string) (Paths, error) {
	if home == "" {
		discovered, err := DiscoverHome()
		if err != nil {
			return Paths{}, err
		}
		home = discovered
	}
	return Paths{Home: home}, nil
}

// ConfigFile is the optional config.yaml
func (p Paths) ConfigFile() string {
	return filepath.Join(p.Home, "config.yaml")
}

// LogFile is where the terminal UI sends its logs
func (p Paths) LogFile() string {
	return filepath.Join(p.Home, "scribe.log")
}

// Ensure creates the home directory, readable by the owner only
func (p Paths) Ensure() error {
	if err := os.MkdirAll(p.Home, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", p.Home, err)
	}
	return nil
}
