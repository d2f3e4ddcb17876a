package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlags(t *testing.T) {
	f := rootCmd.Flags()
	require.NoError(t, f.Set("addr", ":9999"))
	require.NoError(t, f.Set("data-dir", "/srv/data"))
	require.NoError(t, f.Set("log-level", "debug"))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, "/srv/data", cfg.DataDir)
	require.Equal(t, "debug", cfg.LogLevel)

	require.NoError(t, f.Set("log-level", "loud"))
	_, err = loadConfig(rootCmd)
	require.ErrorContains(t, err, "invalid configuration")
}
