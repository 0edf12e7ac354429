package featurestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/togglekit/pkg/featurestore"
)

func TestStatesFromMap(t *testing.T) {
	t.Parallel()
	states := featurestore.StatesFromMap(map[string]bool{"sprint": true, "Flight": false, "aimbot": true})
	assert.Equal(t, []featurestore.State{
		{Name: "aimbot", Enabled: true},
		{Name: "Flight", Enabled: false},
		{Name: "sprint", Enabled: true},
	}, states)
	assert.Equal(t, []string{"aimbot", "sprint"}, featurestore.EnabledNames(states))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := featurestore.NewMemoryStore(featurestore.State{Name: "A", Enabled: true})

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []featurestore.State{{Name: "A", Enabled: true}}, got)

	got[0].Enabled = false
	again, _ := store.Load(ctx)
	assert.True(t, again[0].Enabled, "Load returns a copy")

	require.NoError(t, store.Save(ctx, nil))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, store.Saves())
	assert.NoError(t, store.Close())
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("MissingFileIsEmpty", func(t *testing.T) {
		t.Parallel()
		store := featurestore.NewFileStore(filepath.Join(t.TempDir(), "none.yaml"))
		states, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, states)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "features.yaml")
		store := featurestore.NewFileStore(path)
		want := []featurestore.State{{Name: "Flight", Enabled: true}, {Name: "Sprint", Enabled: false}}

		require.NoError(t, store.Save(ctx, want))
		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "name: Flight")
		assert.Equal(t, path, store.Path())

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temporary files are cleaned up")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("features: [oops"), 0o600))
		_, err := featurestore.NewFileStore(path).Load(ctx)
		assert.ErrorIs(t, err, featurestore.ErrInvalidStateFile)
	})

	t.Run("EntryWithoutName", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "noname.yaml")
		require.NoError(t, os.WriteFile(path, []byte("features:\n  - enabled: true\n"), 0o600))
		_, err := featurestore.NewFileStore(path).Load(ctx)
		assert.ErrorIs(t, err, featurestore.ErrInvalidStateFile)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		store := featurestore.NewFileStore(filepath.Join(t.TempDir(), "f.yaml"))
		assert.ErrorIs(t, store.Save(cctx, nil), featurestore.ErrSaveFailed)
		_, err := store.Load(cctx)
		assert.ErrorIs(t, err, featurestore.ErrLoadFailed)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := featurestore.Open(ctx, featurestore.Config{Driver: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &featurestore.MemoryStore{}, store)

	store, err = featurestore.Open(ctx, featurestore.Config{Driver: " FILE ", FilePath: "x.yaml"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &featurestore.FileStore{}, store)

	_, err = featurestore.Open(ctx, featurestore.Config{Driver: "etcd"}, nil)
	assert.ErrorIs(t, err, featurestore.ErrUnknownDriver)

	for _, driver := range []string{"redis", "postgres", "mongo"} {
		_, err = featurestore.Open(ctx, featurestore.Config{Driver: driver}, nil)
		assert.ErrorIs(t, err, featurestore.ErrMissingConnectionURL, driver)
	}
}
