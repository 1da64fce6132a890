package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	assert.NilError(t, err)
	assert.DeepEqual(t, p, Defaults())
}

func TestLoadReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "instrumenta")
	assert.NilError(t, os.MkdirAll(dir, 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("page_size = 25\nlast_search = \" kora \"\n"), 0o644))

	p, err := Load("")
	assert.NilError(t, err)
	assert.Equal(t, p.PageSize, 25)
	assert.Equal(t, p.LastSearch, "kora")
}

func TestLoadDegradesOnBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	assert.NilError(t, os.WriteFile(path, []byte("page_size = = 3"), 0o644))
	p, err := Load(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, p, Defaults())

	assert.NilError(t, os.WriteFile(path, []byte("page_size = 5000\n"), 0o644))
	p, err = Load(path)
	assert.NilError(t, err)
	assert.Equal(t, p.PageSize, defaultPageSize)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	want := Prefs{PageSize: 20, LastSearch: "sabar", Family: "Percussions"}

	assert.NilError(t, Save(path, want))
	got, err := Load(path)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, want)
}
