package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserState_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	store := NewBrowserState(path)

	state, err := store.LoadState()
	require.NoError(t, err)
	assert.Nil(t, state, "no state before the first save")

	saved := []byte(`{"cookies":[{"name":"token","value":"abc"}],"origins":[]}`)
	require.NoError(t, store.SaveState(saved))

	loaded, err := store.LoadState()
	require.NoError(t, err)
	assert.JSONEq(t, string(saved), string(loaded))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	loaded, err = store.LoadState()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestBrowserState_RejectsInvalidJSON(t *testing.T) {
	store := NewBrowserState(filepath.Join(t.TempDir(), "state.json"))

	assert.Error(t, store.SaveState([]byte("not json")))

	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0o600))
	_, err := store.LoadState()
	assert.Error(t, err)
}

func TestDefaultStatePath(t *testing.T) {
	assert.Equal(t, "state.json", filepath.Base(DefaultStatePath()))
	assert.Equal(t, ".notes_e2e", filepath.Base(filepath.Dir(DefaultStatePath())))
	assert.Equal(t, DefaultStatePath(), NewBrowserState("").Path())
}
