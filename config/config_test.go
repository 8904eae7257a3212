package config_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/jvm-runtime/config"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"."}, cfg.ClassPath)
	assert.Equal(t, engine.DefaultMaxDepth, cfg.MaxCallDepth)
	assert.Zero(t, cfg.MaxSteps)
	assert.Equal(t, config.DefaultClassCacheSize, cfg.ClassCacheSize)
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse(`
class_path = ["classes", "lib/a.jar"]
max_call_depth = 64
max_steps = 1000
trace = true

[log]
level = "debug"
development = true
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"classes", "lib/a.jar"}, cfg.ClassPath)
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.Equal(t, 1000, cfg.MaxSteps)
	assert.True(t, cfg.Trace)
	assert.Equal(t, config.DefaultClassCacheSize, cfg.ClassCacheSize, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `max_call_depth = `},
		{"unknown key", `max_depth = 3`},
		{"unknown table key", "[log]\ncolor = true"},
		{"zero depth", `max_call_depth = 0`},
		{"negative steps", `max_steps = -1`},
		{"zero cache", `class_cache_size = 0`},
		{"empty class path", `class_path = []`},
		{"blank class path entry", `class_path = [" "]`},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"wrong type", `max_steps = "many"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(tt.text)
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseConfig, e.Phase)
		})
	}
}

func TestLoadResolvesClassPathAgainstFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jvmrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(`class_path = ["classes", "/opt/lib"]`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "classes"), "/opt/lib"}, cfg.ClassPath)

	_, err = config.Load(filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestNewLogger(t *testing.T) {
	for _, dev := range []bool{false, true} {
		cfg := config.Default()
		cfg.Log = config.LogConfig{Level: "info", Development: dev}

		logger, err := cfg.NewLogger()
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	}

	cfg := config.Default()
	cfg.Log.Level = "nope"
	_, err := cfg.NewLogger()
	assert.Error(t, err)
}

func TestLoaders(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	require.NoError(t, os.Mkdir(classes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classes, "A.class"), []byte{1}, 0o644))

	jarPath := filepath.Join(dir, "lib.jar")
	f, err := os.Create(jarPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("B.class")
	require.NoError(t, err)
	_, err = w.Write([]byte{2})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.ClassPath = []string{classes, jarPath}
	chain, err := cfg.Loaders()
	require.NoError(t, err)
	defer chain.Close()
	require.Len(t, chain, 2)

	data, err := chain.Load("A")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)

	data, err = chain.Load("B")
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, data)

	t.Run("missing entry", func(t *testing.T) {
		cfg := config.Default()
		cfg.ClassPath = []string{classes, filepath.Join(dir, "nope")}
		_, err := cfg.Loaders()
		assert.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
	})

	t.Run("plain file", func(t *testing.T) {
		cfg := config.Default()
		cfg.ClassPath = []string{filepath.Join(classes, "A.class")}
		_, err := cfg.Loaders()
		assert.True(t, errors.IsKind(err, errors.KindInvalidInput), "got %v", err)
	})
}
