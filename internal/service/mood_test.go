package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
	"github.com/kidmood/kidmood-api/internal/service"
	"github.com/kidmood/kidmood-api/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	return fs
}

func allAxes(value int) domain.MoodValues {
	return domain.MoodValues{
		Love: value, Joy: value, Calm: value,
		Energy: value, Sadness: value, Anger: value,
	}
}

func TestDecayValues_BaselineIsFixedPoint(t *testing.T) {
	for _, days := range []int{0, 1, 5, 365} {
		decayed := service.DecayValues(allAxes(domain.MoodDefault), days)
		assert.Equal(t, allAxes(domain.MoodDefault), decayed, "elapsedDays=%d", days)
	}
}

func TestDecayValues_MonotonicApproachFromAbove(t *testing.T) {
	value := 100
	for day := 0; day < 10; day++ {
		next := service.DecayValues(allAxes(value), 1).Joy
		assert.Less(t, next, value, "day %d", day)
		assert.GreaterOrEqual(t, next, domain.MoodDefault)
		value = next
	}
}

func TestDecayValues_NeverOvershootsBaseline(t *testing.T) {
	high := service.DecayValues(allAxes(100), 10000)
	assert.Equal(t, allAxes(domain.MoodDefault), high)

	low := service.DecayValues(allAxes(0), 10000)
	assert.Equal(t, allAxes(domain.MoodDefault), low)
}

func TestDecayValues_TenDaysFromHundred(t *testing.T) {
	// 100 + (50-100)*0.03*10 = 85
	decayed := service.DecayValues(allAxes(100), 10)
	assert.Equal(t, 85, decayed.Joy)
}

func TestMoodService_GetCreatesNeutralRecord(t *testing.T) {
	svc := service.NewMoodService(repository.NewMoodRepository(newTestStore(t)))

	mood, err := svc.Get(context.Background(), "child-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NeutralMoodValues(), mood.Values)
	assert.Equal(t, "child-1", mood.ChildRef)
}

func TestMoodService_AwardClampsAtHundred(t *testing.T) {
	svc := service.NewMoodService(repository.NewMoodRepository(newTestStore(t)))
	ctx := context.Background()

	var mood domain.Mood
	var err error
	for i := 0; i < 50; i++ {
		mood, err = svc.Award(ctx, "child-1", "", domain.MoodDelta{Joy: 6})
		require.NoError(t, err)
	}

	assert.Equal(t, 100, mood.Values.Joy)
}

func TestMoodService_AwardClampsAtZero(t *testing.T) {
	svc := service.NewMoodService(repository.NewMoodRepository(newTestStore(t)))
	ctx := context.Background()

	var mood domain.Mood
	var err error
	for i := 0; i < 50; i++ {
		mood, err = svc.Award(ctx, "child-1", "", domain.MoodDelta{Sadness: -6})
		require.NoError(t, err)
	}

	assert.Equal(t, 0, mood.Values.Sadness)
}

func TestMoodService_AwardUnknownReason(t *testing.T) {
	svc := service.NewMoodService(repository.NewMoodRepository(newTestStore(t)))

	_, err := svc.Award(context.Background(), "child-1", "no_such_reason", domain.MoodDelta{})
	assert.ErrorIs(t, err, service.ErrUnknownReason)
}

func TestMoodService_NamedReasonUsesDeltaTable(t *testing.T) {
	svc := service.NewMoodService(repository.NewMoodRepository(newTestStore(t)))

	mood, err := svc.Award(context.Background(), "child-1", "checkin_happy", domain.MoodDelta{})
	require.NoError(t, err)
	assert.Equal(t, 56, mood.Values.Joy)
	assert.Equal(t, 52, mood.Values.Love)
	assert.Equal(t, 48, mood.Values.Sadness)
	assert.Equal(t, 49, mood.Values.Anger)
	assert.Equal(t, 50, mood.Values.Calm)
}

func TestMoodService_GetAppliesDecayAndPersists(t *testing.T) {
	repo := repository.NewMoodRepository(newTestStore(t))
	svc := service.NewMoodService(repo)
	ctx := context.Background()

	seeded, err := repo.GetOrCreate(ctx, "child-1")
	require.NoError(t, err)
	seeded.Values = allAxes(100)
	seeded.LastUpdated = time.Now().UTC().Add(-10 * 24 * time.Hour)
	require.NoError(t, repo.Update(ctx, seeded))

	mood, err := svc.Get(ctx, "child-1")
	require.NoError(t, err)
	assert.Equal(t, 85, mood.Values.Joy)

	// The refreshed LastUpdated must stop the same window from
	// decaying twice.
	again, err := svc.Get(ctx, "child-1")
	require.NoError(t, err)
	assert.Equal(t, 85, again.Values.Joy)
}

func TestMoodService_AwardAppliesDecayFirst(t *testing.T) {
	repo := repository.NewMoodRepository(newTestStore(t))
	svc := service.NewMoodService(repo)
	ctx := context.Background()

	seeded, err := repo.GetOrCreate(ctx, "child-1")
	require.NoError(t, err)
	seeded.Values = allAxes(100)
	seeded.LastUpdated = time.Now().UTC().Add(-10 * 24 * time.Hour)
	require.NoError(t, repo.Update(ctx, seeded))

	// Decay brings Joy to 85 before the +6 lands.
	mood, err := svc.Award(ctx, "child-1", "", domain.MoodDelta{Joy: 6})
	require.NoError(t, err)
	assert.Equal(t, 91, mood.Values.Joy)
}
