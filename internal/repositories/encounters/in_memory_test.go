package encounters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/repositories/encounters"
	"github.com/KirkDiggler/squad-tactics/internal/testutils"
)

func TestInMemoryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := encounters.NewInMemoryRepository()

	enc := testutils.CreateTestEncounter("enc-1", "region-1")
	require.NoError(t, repo.Create(ctx, enc))

	err := repo.Create(ctx, enc)
	assert.True(t, apperrors.IsAlreadyExists(err))

	got, err := repo.Get(ctx, "enc-1")
	require.NoError(t, err)
	assert.Same(t, enc, got)

	enc.Round = 3
	require.NoError(t, repo.Update(ctx, enc))

	missing := testutils.CreateTestEncounter("enc-404", "region-1")
	assert.True(t, apperrors.IsNotFound(repo.Update(ctx, missing)))

	require.NoError(t, repo.Delete(ctx, "enc-1"))
	_, err = repo.Get(ctx, "enc-1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, "enc-1")))
}

func TestInMemoryRepository_GetActiveByRegion(t *testing.T) {
	ctx := context.Background()
	repo := encounters.NewInMemoryRepository()

	t.Run("Returns nil when no encounters exist", func(t *testing.T) {
		enc, err := repo.GetActiveByRegion(ctx, "region-1")
		assert.NoError(t, err)
		assert.Nil(t, enc)
	})

	t.Run("Skips finished encounters", func(t *testing.T) {
		done := testutils.CreateTestEncounter("enc-1", "region-1")
		require.NoError(t, done.Retreat(ctx))
		require.NoError(t, repo.Create(ctx, done))

		active := testutils.CreateTestEncounter("enc-2", "region-1")
		require.NoError(t, repo.Create(ctx, active))

		enc, err := repo.GetActiveByRegion(ctx, "region-1")
		require.NoError(t, err)
		require.NotNil(t, enc)
		assert.Equal(t, "enc-2", enc.ID)

		all, err := repo.ListByRegion(ctx, "region-1")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Regions are isolated", func(t *testing.T) {
		enc, err := repo.GetActiveByRegion(ctx, "region-2")
		assert.NoError(t, err)
		assert.Nil(t, enc)
	})
}
