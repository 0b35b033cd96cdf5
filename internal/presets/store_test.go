package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Conceptual-Machines/music-track-generator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinNames() []string {
	return []string{ClassicalOrchestral, ElectronicDance, JazzSmooth, PopCatchy, RockAnthem}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "presets")
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func userPreset(name string) models.PresetConfig {
	return models.PresetConfig{
		Name:        name,
		Description: "user preset",
		Genre:       "test",
		Structure:   models.DefaultSongStructure(),
		StyleReferences: models.StyleReferences{
			{Type: models.StyleTypeArtist, Value: "Somebody"},
		},
		Temperature: 0.3,
		Tips:        "tip",
	}
}

func TestNewStoreSeedsBuiltins(t *testing.T) {
	store, dir := newTestStore(t)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, builtinNames(), names)

	for _, name := range builtinNames() {
		_, err := os.Stat(filepath.Join(dir, name+".yaml"))
		assert.NoError(t, err)
	}
}

func TestBuiltinsAreValid(t *testing.T) {
	presets := Builtins()
	require.Len(t, presets, 5)
	for _, p := range presets {
		assert.NoError(t, p.Validate(), p.Name)
		assert.NotEmpty(t, p.Tips, p.Name)
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	store, dir := newTestStore(t)

	custom := userPreset(RockAnthem)
	custom.Genre = "punk"
	_, err := store.Save(custom)
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(dir, RockAnthem+".yaml"))
	require.NoError(t, err)

	again, err := NewStore(dir)
	require.NoError(t, err)

	seeded, err := again.ensureBuiltins()
	require.NoError(t, err)
	assert.Zero(t, seeded)

	names, err := again.List()
	require.NoError(t, err)
	assert.Equal(t, builtinNames(), names)

	after, err := os.ReadFile(filepath.Join(dir, RockAnthem+".yaml"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	loaded, err := again.Load(RockAnthem)
	require.NoError(t, err)
	assert.Equal(t, "punk", loaded.Genre)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)
	p := userPreset("t1")

	path, err := store.Save(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "t1.yaml"), path)

	loaded, err := store.Load("t1")
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	p := userPreset("t1")
	_, err := store.Save(p)
	require.NoError(t, err)

	p.Genre = "blues"
	p.StyleReferences = nil
	_, err = store.Save(p)
	require.NoError(t, err)

	loaded, err := store.Load("t1")
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestSaveRejectsInvalidPreset(t *testing.T) {
	store, _ := newTestStore(t)

	p := userPreset("../escape")
	_, err := store.Save(p)
	require.Error(t, err)
	var vErr *models.ValidationError
	assert.ErrorAs(t, err, &vErr)

	p = userPreset("ok")
	p.Temperature = 3
	_, err = store.Save(p)
	assert.ErrorAs(t, err, &vErr)
}

func TestLoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load("nonexistent_preset")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.Load("../../etc/passwd")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadCorruptFileIsLoadError(t *testing.T) {
	store, dir := newTestStore(t)

	tests := map[string]string{
		"broken":     "name: [unterminated\n",
		"wrongshape": "name: wrongshape\ngenre: rock\nstructure:\n  verse_count: 12\n",
		"mismatch":   "name: other\ngenre: rock\n",
		"badtype":    "name: badtype\ngenre: rock\ntemperature: hot\n",
		"nantemp":    "name: nantemp\ngenre: rock\ntemperature: .nan\n",
		"inftemp":    "name: inftemp\ngenre: rock\ntemperature: -.inf\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0o644))

			_, err := store.Load(name)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNotFound))

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, name, loadErr.Name)
		})
	}
}

func TestListSortedAndIgnoresOtherFiles(t *testing.T) {
	store, dir := newTestStore(t)

	for _, name := range []string{"zeta", "a-b", "a"} {
		_, err := store.Save(userPreset(name))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".yaml"), []byte("name: ''\n"), 0o644))

	names, err := store.List()
	require.NoError(t, err)

	expected := append([]string{"a", "a-b"}, builtinNames()...)
	expected = append(expected, "zeta")
	assert.Equal(t, expected, names)
}

func TestListWithMetadata(t *testing.T) {
	store, _ := newTestStore(t)

	items, err := store.ListWithMetadata()
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, models.PresetMetadata{
		Name:        ClassicalOrchestral,
		Genre:       "classical",
		Description: "Classical orchestral composition",
	}, items[0])
}

func TestListWithMetadataCoherentAfterSave(t *testing.T) {
	store, _ := newTestStore(t)

	p := userPreset("x")
	_, err := store.Save(p)
	require.NoError(t, err)

	items, err := store.ListWithMetadata()
	require.NoError(t, err)
	assert.Contains(t, items, models.PresetMetadata{Name: "x", Genre: "test", Description: "user preset"})

	p.Genre = "changed"
	p.Description = "new description"
	_, err = store.Save(p)
	require.NoError(t, err)

	items, err = store.ListWithMetadata()
	require.NoError(t, err)
	assert.Contains(t, items, models.PresetMetadata{Name: "x", Genre: "changed", Description: "new description"})
	assert.NotContains(t, items, models.PresetMetadata{Name: "x", Genre: "test", Description: "user preset"})
}

func TestListWithMetadataCoherentAfterDelete(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save(userPreset("x"))
	require.NoError(t, err)
	_, err = store.ListWithMetadata()
	require.NoError(t, err)

	deleted, err := store.Delete("x")
	require.NoError(t, err)
	require.True(t, deleted)

	items, err := store.ListWithMetadata()
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "x", item.Name)
	}
	_, cached := store.metadata.Get("x")
	assert.False(t, cached)
}

func TestListWithMetadataSkipsCorruptFiles(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(":::"), 0o644))

	items, err := store.ListWithMetadata()
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)

	deleted, err := store.Delete("missing")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = store.Delete(JazzSmooth)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Load(JazzSmooth)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err = store.Delete("../x")
	require.NoError(t, err)
	assert.False(t, deleted)
}
