package registry_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/aretw0/tinytop/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New()
	factory := func(desc domain.GameDescriptor) (ports.Game, error) { return nil, nil }
	c.Register("snake", factory)
	c.Register("doodletype", factory)
	return c
}

func writeGame(t *testing.T, root, id, manifest string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, registry.ManifestFile), []byte(manifest), 0644))
	}
	return dir
}

func TestScan_SortedAndNamed(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "snake", "entry: snake\ndescription: Eat apples\n")
	dir := writeGame(t, root, "doodle_type", "entry: doodletype\noptions:\n  draw_time: 2s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, registry.DescriptionFile), []byte("Type the word\n"), 0644))

	reg := registry.New(registry.WithCatalog(testCatalog()))
	games, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "doodle_type", games[0].ID)
	assert.Equal(t, "Doodle Type", games[0].DisplayName)
	assert.Equal(t, "Type the word", games[0].Description)
	assert.Equal(t, "2s", games[0].Options["draw_time"])

	assert.Equal(t, "snake", games[1].ID)
	assert.Equal(t, "Eat apples", games[1].Description)
}

func TestScan_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "b", "entry: snake\n")
	writeGame(t, root, "a", "entry: doodletype\nname: Custom\n")

	reg := registry.New(registry.WithCatalog(testCatalog()))
	first, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)
	second, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Custom", second[0].DisplayName)
}

func TestScan_SkipsMalformedDirectories(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "good", "entry: snake\n")
	writeGame(t, root, "broken_yaml", "entry: [unclosed\n")
	writeGame(t, root, "no_entry", "name: Nothing\n")
	writeGame(t, root, "unknown_entry", "entry: tetris\n")
	writeGame(t, root, "assets", "") // not a game at all
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0644))

	reg := registry.New(registry.WithCatalog(testCatalog()))
	games, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "good", games[0].ID)

	_, err = reg.Validate(context.Background(), root)
	require.Error(t, err)
	var discovery *domain.DiscoveryError
	assert.ErrorAs(t, err, &discovery)
	assert.Contains(t, err.Error(), "broken_yaml")
	assert.Contains(t, err.Error(), "no_entry")
	assert.Contains(t, err.Error(), "unknown_entry")
	assert.NotContains(t, err.Error(), "assets")
}

func TestScan_MissingRoot(t *testing.T) {
	reg := registry.New(registry.WithCatalog(testCatalog()))
	_, err := reg.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScan_EmptyRootIsValid(t *testing.T) {
	reg := registry.New(registry.WithCatalog(testCatalog()))
	games, err := reg.Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Empty(t, reg.Descriptors())
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	dir := writeGame(t, root, "snake", "entry: snake\n")

	reg := registry.New(registry.WithCatalog(testCatalog()))
	_, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)

	t.Run("Known", func(t *testing.T) {
		factory, desc, err := reg.Resolve("snake")
		require.NoError(t, err)
		assert.NotNil(t, factory)
		assert.Equal(t, "snake", desc.Entry)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := reg.Resolve("pong")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		var launch *domain.LaunchError
		assert.ErrorAs(t, err, &launch)
	})

	t.Run("Manifest Removed After Scan", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(dir))
		_, _, err := reg.Resolve("snake")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestRescan_PicksUpChanges(t *testing.T) {
	root := t.TempDir()
	writeGame(t, root, "snake", "entry: snake\n")

	reg := registry.New(registry.WithCatalog(testCatalog()))
	require.NoError(t, reg.Rescan(context.Background())) // no-op before Scan
	_, err := reg.Scan(context.Background(), root)
	require.NoError(t, err)

	writeGame(t, root, "doodle", "entry: doodletype\n")
	require.NoError(t, reg.Rescan(context.Background()))
	assert.Len(t, reg.Descriptors(), 2)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Doodle Type", registry.DisplayName("doodle_type"))
	assert.Equal(t, "Snake", registry.DisplayName("snake"))
	assert.Equal(t, "Space Race", registry.DisplayName("space-race"))
}
