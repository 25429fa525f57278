package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
	"github.com/kidmood/kidmood-api/internal/service"
)

type checkinFixture struct {
	auth     *service.AuthService
	checkins *service.CheckinService
	summary  *service.SummaryService
	moods    *service.MoodService
}

func newCheckinFixture(t *testing.T) checkinFixture {
	t.Helper()

	st := newTestStore(t)
	users := repository.NewUserRepository(st)
	directory := repository.NewDirectoryRepository(st)
	checkinRepo := repository.NewCheckinRepository(st)
	scope := service.NewScopeService(directory, users)
	moods := service.NewMoodService(repository.NewMoodRepository(st))

	return checkinFixture{
		auth:     service.NewAuthService(users, directory, repository.NewPinRepository(st)),
		checkins: service.NewCheckinService(checkinRepo, scope, moods),
		summary:  service.NewSummaryService(checkinRepo, scope, nil),
		moods:    moods,
	}
}

func TestCheckinService_RejectsInvalidInput(t *testing.T) {
	f := newCheckinFixture(t)
	ctx := context.Background()
	identity := domain.Identity{ID: "child-1", Role: domain.RoleChild}

	_, err := f.checkins.Create(ctx, identity, service.CreateCheckinInput{
		Emotion: "ecstatic", Mode: domain.ModeText, Date: time.Now(),
	})
	assert.ErrorIs(t, err, service.ErrInvalidEmotion)

	_, err = f.checkins.Create(ctx, identity, service.CreateCheckinInput{
		Emotion: domain.EmotionHappy, Mode: "video", Date: time.Now(),
	})
	assert.ErrorIs(t, err, service.ErrInvalidMode)
}

func TestCheckinService_RejectsUnscopedChild(t *testing.T) {
	f := newCheckinFixture(t)

	_, err := f.checkins.Create(context.Background(),
		domain.Identity{ID: "never-signed-up", Role: domain.RoleChild},
		service.CreateCheckinInput{Emotion: domain.EmotionHappy, Mode: domain.ModeText, Date: time.Now()})
	assert.ErrorIs(t, err, service.ErrNoClassScope)
}

// A week in a fresh classroom: one child checks in three days running,
// then the teacher reads the weekly dashboard.
func TestCheckinService_WeeklyClassroomFlow(t *testing.T) {
	f := newCheckinFixture(t)
	ctx := context.Background()

	child, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)
	childIdentity := domain.Identity{ID: child.ID, Role: domain.RoleChild}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	emotions := []string{domain.EmotionHappy, domain.EmotionCalm, domain.EmotionSad}
	for i, emotion := range emotions {
		_, err = f.checkins.Create(ctx, childIdentity, service.CreateCheckinInput{
			Emotion:  emotion,
			Mode:     domain.ModeText,
			ClientID: "client-" + emotion,
			Date:     base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	pro, err := f.auth.Signup(ctx, domain.User{
		Email:     "teacher@example.org",
		Password:  "s3cret-pass",
		Role:      domain.RolePro,
		ClassCode: "1234",
	})
	require.NoError(t, err)
	proIdentity := domain.Identity{ID: pro.ID, Role: domain.RolePro}

	from := base.AddDate(0, 0, -1)
	to := base.AddDate(0, 0, 7)

	summary := f.summary.Summarize(ctx, proIdentity, from, to)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[string]int{"happy": 1, "calm": 1, "sad": 1}, summary.Buckets)
	require.Len(t, summary.TimeSeries, 3)
	assert.Equal(t, "2026-03-02", summary.TimeSeries[0].Date)
	assert.Equal(t, "2026-03-04", summary.TimeSeries[2].Date)

	listed, err := f.checkins.List(ctx, proIdentity, from, to)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.True(t, listed[0].Date.Before(listed[1].Date))
	assert.True(t, listed[1].Date.Before(listed[2].Date))
}

func TestCheckinService_ReplayedClientIDIngestsOnce(t *testing.T) {
	f := newCheckinFixture(t)
	ctx := context.Background()

	child, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)
	identity := domain.Identity{ID: child.ID, Role: domain.RoleChild}

	input := service.CreateCheckinInput{
		Emotion:  domain.EmotionHappy,
		Mode:     domain.ModeText,
		ClientID: "offline-replay-1",
		Date:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	first, err := f.checkins.Create(ctx, identity, input)
	require.NoError(t, err)
	second, err := f.checkins.Create(ctx, identity, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	listed, err := f.checkins.List(ctx, identity, input.Date.AddDate(0, 0, -1), input.Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCheckinService_CheckinMovesMood(t *testing.T) {
	f := newCheckinFixture(t)
	ctx := context.Background()

	child, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)
	identity := domain.Identity{ID: child.ID, Role: domain.RoleChild}

	_, err = f.checkins.Create(ctx, identity, service.CreateCheckinInput{
		Emotion:  domain.EmotionHappy,
		Mode:     domain.ModeText,
		ClientID: "c1",
		Date:     time.Now().UTC(),
	})
	require.NoError(t, err)

	mood, err := f.moods.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Greater(t, mood.Values.Joy, domain.MoodDefault)
}
