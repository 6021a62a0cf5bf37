package animals_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildquiz/internal/animals"
	"github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/models"
)

func openStore(t *testing.T) *animals.Store {
	t.Helper()
	store, err := animals.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// A plain file path (no DSN query string) must create the database at that
// exact path, not at a mangled filename with the options appended.
func TestOpen_PlainFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.db")

	store, err := animals.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = os.Stat(path)
	require.NoError(t, err, "database file should exist at the given path")

	lion, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lion", lion.Name)
}

func TestGet_SeedAnimal(t *testing.T) {
	store := openStore(t)

	lion, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Lion", lion.Name)
	assert.Equal(t, "savanna", lion.Habitat)
	assert.Equal(t, models.PeriodDiurnal, lion.Period)
	assert.Equal(t, models.DietCarnivore, lion.Diet)
	assert.NotEmpty(t, lion.SoundFile)
	assert.NotEmpty(t, lion.ImageFile)
}

func TestGet_NotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), 999)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestList_FullCatalogue(t *testing.T) {
	store := openStore(t)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 24)
	// id order
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].ID, all[i-1].ID)
	}
}

func TestRandomByHabitat_FiltersAndExcludes(t *testing.T) {
	store := openStore(t)

	sampled, err := store.RandomByHabitat(context.Background(), "savanna", 1, 10)
	require.NoError(t, err)
	// 4 savanna animals seeded, one excluded
	assert.Len(t, sampled, 3)
	for _, a := range sampled {
		assert.Equal(t, "savanna", a.Habitat)
		assert.NotEqual(t, int64(1), a.ID)
	}
}

func TestRandomByHabitat_NoHabitatFilter(t *testing.T) {
	store := openStore(t)

	sampled, err := store.RandomByHabitat(context.Background(), "", 0, 5)
	require.NoError(t, err)
	assert.Len(t, sampled, 5)
}

func TestHabitats_SeededOrder(t *testing.T) {
	store := openStore(t)

	habitats, err := store.Habitats(context.Background())
	require.NoError(t, err)
	require.Len(t, habitats, 6)
	assert.Equal(t, "forest", habitats[0].Tag)
	assert.Equal(t, "Tropical Forest", habitats[0].Name)
	assert.Equal(t, "polar", habitats[5].Tag)
}

func TestHabitatName(t *testing.T) {
	store := openStore(t)

	name, err := store.HabitatName(context.Background(), "savanna")
	require.NoError(t, err)
	assert.Equal(t, "African Savanna", name)

	_, err = store.HabitatName(context.Background(), "swamp")
	assert.Error(t, err)
}

func TestEveryHabitatHasFourAnimals(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	habitats, err := store.Habitats(ctx)
	require.NoError(t, err)

	for _, h := range habitats {
		sampled, err := store.RandomByHabitat(ctx, h.Tag, 0, 10)
		require.NoError(t, err)
		assert.Len(t, sampled, 4, "habitat %s", h.Tag)
	}
}
