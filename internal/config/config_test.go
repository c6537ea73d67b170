package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-fieldexpr/internal/testutil"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("dim", 0, "")
	fs.Int("n", 0, "")
	fs.Int("order", 0, "")
	fs.Bool("compile", false, "")
	fs.Int("chunk-size", 0, "")
	fs.String("log-level", "", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDim, cfg.Mesh.Dim)
	assert.Equal(t, DefaultN, cfg.Mesh.N)
	assert.Equal(t, DefaultOrder, cfg.Order)
	assert.True(t, cfg.Optimize)
	assert.False(t, cfg.Compile)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Empty(t, cfg.ConfigFile)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
mesh:
  dim: 3
  n: 2
order: 3
workers: 2
log_level: debug
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, path, cfg.ConfigFile)
		assert.Equal(t, 3, cfg.Mesh.Dim)
		assert.Equal(t, 2, cfg.Mesh.N)
		assert.Equal(t, 3, cfg.Order)
		assert.Equal(t, 2, cfg.Workers)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("FIELDEXPR_MESH__N", "5")
		t.Setenv("FIELDEXPR_CHUNK_SIZE", "64")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Mesh.N)
		assert.Equal(t, 64, cfg.ChunkSize)
		assert.Equal(t, 3, cfg.Mesh.Dim)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("FIELDEXPR_ORDER", "6")
		fs := newFlags()
		require.NoError(t, fs.Parse([]string{"--dim=2", "--n=4", "--compile", "--log-level=info"}))
		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Mesh.Dim)
		assert.Equal(t, 4, cfg.Mesh.N)
		assert.Equal(t, 6, cfg.Order)
		assert.True(t, cfg.Compile)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("unset flags keep lower layers", func(t *testing.T) {
		fs := newFlags()
		require.NoError(t, fs.Parse(nil))
		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Mesh.Dim)
		assert.Equal(t, 3, cfg.Order)
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		errSubstr string
	}{
		{"bad dim", "mesh:\n  dim: 4\n", "mesh.dim must be 2 or 3"},
		{"bad n", "mesh:\n  n: -1\n", "mesh.n must be at least 1"},
		{"bad level", "log_level: loud\n", "invalid log_level"},
		{"bad yaml", "mesh: [", "error reading config file"},
		{"unknown region", "mesh:\n  regions:\n    - kind: star\n", "unknown region kind"},
		{"wrong dim region", "mesh:\n  regions:\n    - kind: ball\n      center: [0, 0, 0]\n      radius: 1\n", "needs a 3D mesh"},
		{"short center", "mesh:\n  regions:\n    - kind: disk\n      center: [0.5]\n      radius: 1\n", "center needs 2 coordinates"},
		{"empty rect", "mesh:\n  regions:\n    - kind: rect\n      lo: [0.5, 0.5]\n      hi: [0.5, 1]\n", "mesh.regions[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
	})
}

func TestBuildMesh(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		elements int
		domains  int
	}{
		{"square", "mesh:\n  n: 3\n", 18, 1},
		{"cube", "mesh:\n  dim: 3\n  n: 1\n", 6, 1},
		{
			"regions",
			"mesh:\n  n: 4\n  regions:\n    - kind: disk\n      center: [0.5, 0.5]\n      radius: 0.3\n    - kind: rect\n      lo: [0, 0]\n      hi: [1, 0.25]\n",
			32, 3,
		},
		{
			"block",
			"mesh:\n  dim: 3\n  n: 2\n  regions:\n    - kind: block\n      lo: [0, 0, 0]\n      hi: [0.5, 1, 1]\n",
			48, 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body), nil)
			require.NoError(t, err)
			m, err := cfg.BuildMesh(testutil.NewTestHandler(t))
			require.NoError(t, err)
			assert.Equal(t, tt.elements, m.Elements())
			assert.Equal(t, tt.domains, m.Domains())
		})
	}
}
