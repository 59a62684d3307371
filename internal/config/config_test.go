package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/internal/config"
)

func TestLoadWithoutPathUsesEnvAndDefaults(t *testing.T) {
	t.Setenv("SOULC_MAX_DIAGNOSTICS", "50")
	t.Setenv("SOULC_DEBUG_INTERNAL", "true")

	opts, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, 50, opts.MaxDiagnostics)
	require.True(t, opts.DebugInternal)
	require.True(t, opts.NameBlocks)
}

func TestLoadOverlaysYamlOverEnvDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soulc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name_blocks: false\nmax_diagnostics: 10\n"), 0o644))

	opts, err := config.Load(path)
	require.NoError(t, err)
	require.False(t, opts.NameBlocks)
	require.Equal(t, 10, opts.MaxDiagnostics)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
