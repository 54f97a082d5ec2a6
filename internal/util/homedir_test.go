//go:build !windows

package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomedir(t *testing.T) {
	t.Setenv("HOME", "/home/escseq")
	home, err := Homedir()
	require.NoError(t, err)
	require.Equal(t, "/home/escseq", home)

	t.Setenv("HOME", "")
	_, err = Homedir()
	require.Error(t, err)
}
