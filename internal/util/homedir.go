//go:build !windows

package util

import (
	"os"

	"github.com/pkg/errors"
)

// Homedir returns the user's home directory, taken from $HOME.
func Homedir() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("environment variable HOME not set")
	}

	return home, nil
}
