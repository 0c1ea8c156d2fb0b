package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLogFile(t *testing.T) {
	t.Setenv("LOG_FILE", "")

	got, err := resolveLogFile("", "./logs/board.log")
	require.NoError(t, err)
	want, _ := filepath.Abs("./logs/board.log")
	assert.Equal(t, want, got)

	t.Setenv("LOG_FILE", "/var/log/env.log")
	got, err = resolveLogFile("", "./logs/board.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/env.log", got)

	got, err = resolveLogFile("/tmp/flag.log", "./logs/board.log")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.log", got)

	t.Setenv("LOG_FILE", "")
	got, err = resolveLogFile("", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
