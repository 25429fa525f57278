package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
	"github.com/kidmood/kidmood-api/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	fs, err := store.OpenFile(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	return fs
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, time.UTC)
}

func TestCheckinRepository_CreateIsIdempotentOnClientID(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.Checkin{
		OrgID:     "org-1",
		ClassID:   "class-1",
		StudentID: "student-1",
		Emotion:   domain.EmotionHappy,
		Mode:      domain.ModeText,
		Note:      "first note",
		ClientID:  "client-abc",
	})
	require.NoError(t, err)

	second, err := repo.Create(ctx, domain.Checkin{
		OrgID:     "org-1",
		ClassID:   "class-1",
		StudentID: "student-1",
		Emotion:   domain.EmotionSad,
		Mode:      domain.ModeVoice,
		Note:      "different note",
		ClientID:  "client-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first note", second.Note)
	assert.Equal(t, domain.EmotionHappy, second.Emotion)

	scope := domain.Scope{OrgID: "org-1", ClassID: "class-1"}
	checkins := repo.List(ctx, scope, time.Time{}, time.Time{})
	assert.Len(t, checkins, 1)
}

func TestCheckinRepository_SameClientIDDifferentStudents(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.Checkin{
		OrgID: "org-1", ClassID: "class-1", StudentID: "student-1",
		Emotion: domain.EmotionHappy, Mode: domain.ModeText, ClientID: "shared",
	})
	require.NoError(t, err)

	second, err := repo.Create(ctx, domain.Checkin{
		OrgID: "org-1", ClassID: "class-1", StudentID: "student-2",
		Emotion: domain.EmotionCalm, Mode: domain.ModeText, ClientID: "shared",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCheckinRepository_ListFiltersByDateInclusive(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	for _, d := range []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)} {
		_, err := repo.Create(ctx, domain.Checkin{
			OrgID: "org-1", ClassID: "class-1", StudentID: "student-1",
			Emotion: domain.EmotionHappy, Mode: domain.ModeText, Date: d,
		})
		require.NoError(t, err)
	}

	scope := domain.Scope{OrgID: "org-1", ClassID: "class-1"}

	single := repo.List(ctx, scope, day(2024, 1, 2), day(2024, 1, 2))
	require.Len(t, single, 1)
	assert.Equal(t, "2024-01-02", single[0].Day())

	all := repo.List(ctx, scope, day(2024, 1, 1), day(2024, 1, 3))
	assert.Len(t, all, 3)
}

func TestCheckinRepository_ListAscendingByDate(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	// Insert out of order on purpose.
	for _, d := range []time.Time{day(2024, 3, 5), day(2024, 3, 3), day(2024, 3, 4)} {
		_, err := repo.Create(ctx, domain.Checkin{
			OrgID: "org-1", ClassID: "class-1", StudentID: "student-1",
			Emotion: domain.EmotionCalm, Mode: domain.ModeText, Date: d,
		})
		require.NoError(t, err)
	}

	scope := domain.Scope{OrgID: "org-1", ClassID: "class-1"}
	checkins := repo.List(ctx, scope, day(2024, 3, 1), day(2024, 3, 31))
	require.Len(t, checkins, 3)
	assert.Equal(t, "2024-03-03", checkins[0].Day())
	assert.Equal(t, "2024-03-04", checkins[1].Day())
	assert.Equal(t, "2024-03-05", checkins[2].Day())
}

func TestCheckinRepository_ScopeIsolation(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.Checkin{
		OrgID: "org-1", ClassID: "class-a", StudentID: "student-1",
		Emotion: domain.EmotionHappy, Mode: domain.ModeText,
	})
	require.NoError(t, err)

	other := repo.List(ctx, domain.Scope{OrgID: "org-1", ClassID: "class-b"}, time.Time{}, time.Time{})
	assert.Empty(t, other)

	own := repo.List(ctx, domain.Scope{OrgID: "org-1", ClassID: "class-a"}, time.Time{}, time.Time{})
	assert.Len(t, own, 1)
}

func TestCheckinRepository_EmptyScopeReturnsEmpty(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))

	checkins := repo.List(context.Background(), domain.Scope{OrgID: "org-1"}, time.Time{}, time.Time{})
	assert.NotNil(t, checkins)
	assert.Empty(t, checkins)
}

func TestCheckinRepository_DefaultWindowIsTrailingWeek(t *testing.T) {
	repo := repository.NewCheckinRepository(newTestStore(t))
	ctx := context.Background()

	now := time.Now().UTC()
	_, err := repo.Create(ctx, domain.Checkin{
		OrgID: "org-1", ClassID: "class-1", StudentID: "student-1",
		Emotion: domain.EmotionHappy, Mode: domain.ModeText, Date: now,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.Checkin{
		OrgID: "org-1", ClassID: "class-1", StudentID: "student-1",
		Emotion: domain.EmotionSad, Mode: domain.ModeText, Date: now.AddDate(0, 0, -30),
	})
	require.NoError(t, err)

	scope := domain.Scope{OrgID: "org-1", ClassID: "class-1"}
	checkins := repo.List(ctx, scope, time.Time{}, time.Time{})
	require.Len(t, checkins, 1)
	assert.Equal(t, domain.EmotionHappy, checkins[0].Emotion)
}
