package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/repository"
)

func TestPinRepository_ConsumeIsSingleUse(t *testing.T) {
	repo := repository.NewPinRepository(newTestStore(t))
	ctx := context.Background()

	pin, err := repo.Create(ctx, "child-1")
	require.NoError(t, err)
	assert.Len(t, pin.Pin, 4)

	childID, err := repo.Consume(ctx, pin.Pin)
	require.NoError(t, err)
	assert.Equal(t, "child-1", childID)

	_, err = repo.Consume(ctx, pin.Pin)
	assert.ErrorIs(t, err, repository.ErrPinNotFound)
}

func TestPinRepository_CreateInvalidatesPrevious(t *testing.T) {
	repo := repository.NewPinRepository(newTestStore(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, "child-1")
	require.NoError(t, err)
	second, err := repo.Create(ctx, "child-1")
	require.NoError(t, err)

	if first.Pin != second.Pin {
		_, err = repo.Consume(ctx, first.Pin)
		assert.ErrorIs(t, err, repository.ErrPinNotFound)
	}

	childID, err := repo.Consume(ctx, second.Pin)
	require.NoError(t, err)
	assert.Equal(t, "child-1", childID)
}

func TestPinRepository_DeleteExpired(t *testing.T) {
	repo := repository.NewPinRepository(newTestStore(t))
	ctx := context.Background()

	pin, err := repo.Create(ctx, "child-1")
	require.NoError(t, err)

	deleted, err := repo.DeleteExpired(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)

	deleted, err = repo.DeleteExpired(ctx, time.Now().UTC().Add(repository.PinTTL+time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = repo.Consume(ctx, pin.Pin)
	assert.ErrorIs(t, err, repository.ErrPinNotFound)
}
