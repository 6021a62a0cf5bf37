package challenge_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/errors"
)

func newTestFactory(t *testing.T) *challenge.Factory {
	t.Helper()
	return challenge.NewFactory(newFakeSource(), challenge.WithRand(rand.New(rand.NewSource(42))))
}

func TestFactory_BuiltinsRegisteredInOrder(t *testing.T) {
	f := newTestFactory(t)
	assert.Equal(t, []string{
		challenge.TypeSound,
		challenge.TypeImage,
		challenge.TypeHabitat,
		challenge.TypeDiet,
	}, f.Types())
}

func TestFactory_Create(t *testing.T) {
	f := newTestFactory(t)

	for _, typ := range f.Types() {
		ch, err := f.Create(context.Background(), typ, 1, 3)
		require.NoError(t, err, "type %s", typ)
		assert.Equal(t, typ, ch.Type())
		assert.Equal(t, int64(1), ch.AnimalID())
		assert.Equal(t, 3, ch.Difficulty())
	}
}

func TestFactory_CreateUnknownType(t *testing.T) {
	f := newTestFactory(t)

	_, err := f.Create(context.Background(), "telepathy", 1, 1)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownType, appErr.Code)
	// The message enumerates the registered types so callers can self-correct.
	assert.Contains(t, appErr.Message, `"telepathy"`)
	assert.Contains(t, appErr.Message, challenge.TypeSound)
	assert.Contains(t, appErr.Message, challenge.TypeDiet)
}

func TestFactory_CreateClampsDifficulty(t *testing.T) {
	f := newTestFactory(t)

	ch, err := f.Create(context.Background(), challenge.TypeDiet, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Difficulty())

	ch, err = f.Create(context.Background(), challenge.TypeDiet, 1, -7)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Difficulty())
}

func TestFactory_CreateRandom(t *testing.T) {
	f := newTestFactory(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ch, err := f.CreateRandom(context.Background(), 1, 1)
		require.NoError(t, err)
		seen[ch.Type()] = true
	}
	// 50 draws across 4 types should hit every one
	assert.Len(t, seen, 4)
}

func TestFactory_CreateRandomEmptyRegistry(t *testing.T) {
	f := newTestFactory(t)
	for _, typ := range f.Types() {
		require.NoError(t, f.Unregister(typ))
	}

	_, err := f.CreateRandom(context.Background(), 1, 1)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnknownType, appErr.Code)
}

func TestFactory_CreateSet(t *testing.T) {
	f := newTestFactory(t)

	set, err := f.CreateSet(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, set, 4)
	for i, typ := range f.Types() {
		assert.Equal(t, typ, set[i].Type())
	}
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	f := newTestFactory(t)

	custom := func(ctx context.Context, animalID int64, difficulty int) (challenge.Challenge, error) {
		return challenge.NewDiet(ctx, newFakeSource(), rand.New(rand.NewSource(7)), animalID, difficulty)
	}
	require.NoError(t, f.Register("trick", custom))
	assert.Contains(t, f.Types(), "trick")

	ch, err := f.Create(context.Background(), "trick", 1, 1)
	require.NoError(t, err)
	assert.NotNil(t, ch)
}

func TestFactory_RegisterDuplicate(t *testing.T) {
	f := newTestFactory(t)

	err := f.Register(challenge.TypeSound, func(ctx context.Context, animalID int64, difficulty int) (challenge.Challenge, error) {
		return nil, nil
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeDuplicateType, appErr.Code)
}

func TestFactory_Unregister(t *testing.T) {
	f := newTestFactory(t)

	require.NoError(t, f.Unregister(challenge.TypeSound))
	assert.NotContains(t, f.Types(), challenge.TypeSound)

	_, err := f.Create(context.Background(), challenge.TypeSound, 1, 1)
	assert.Error(t, err)

	err = f.Unregister(challenge.TypeSound)
	assert.Error(t, err)
}
