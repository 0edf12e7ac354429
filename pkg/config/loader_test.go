package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/togglekit/pkg/config"
)

type storeConfig struct {
	Driver  string        `env:"STORE_DRIVER" envDefault:"memory"`
	Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`
	Skip    []string      `env:"STORE_SKIP" envSeparator:","`
}

type requiredConfig struct {
	Path string `env:"STATE_PATH,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load[storeConfig](config.WithEnvironment(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Driver)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Skip)
}

func TestLoad_Prefix(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load[storeConfig](
		config.WithPrefix("APP_"),
		config.WithEnvironment(map[string]string{
			"APP_STORE_DRIVER": "redis",
			"APP_STORE_SKIP":   "Freecam,Panic",
			"STORE_TIMEOUT":    "1m",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Driver)
	assert.Equal(t, []string{"Freecam", "Panic"}, cfg.Skip)
	assert.Equal(t, 3*time.Second, cfg.Timeout, "unprefixed variables are ignored")
}

func TestLoad_Required(t *testing.T) {
	t.Parallel()
	_, err := config.Load[requiredConfig](config.WithEnvironment(map[string]string{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{}))
	})
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TOGGLEKIT_TEST_STATE_PATH=/tmp/state.yaml\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TOGGLEKIT_TEST_STATE_PATH") })

	cfg, err := config.Load[requiredConfig](
		config.WithPrefix("TOGGLEKIT_TEST_"),
		config.WithEnvFiles(path),
	)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state.yaml", cfg.Path)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TOGGLEKIT_WIN_STATE_PATH=from-file\n"), 0o600))
	t.Setenv("TOGGLEKIT_WIN_STATE_PATH", "from-env")

	cfg := config.MustLoad[requiredConfig](
		config.WithPrefix("TOGGLEKIT_WIN_"),
		config.WithEnvFiles(path),
	)
	assert.Equal(t, "from-env", cfg.Path)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load[storeConfig](config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
