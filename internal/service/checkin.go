package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidmood/kidmood-api/internal/domain"
)

var (
	ErrInvalidEmotion = errors.New("invalid emotion")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrNoClassScope   = errors.New("no class scope resolved for caller")
)

type CheckinRepository interface {
	Create(ctx context.Context, checkin domain.Checkin) (domain.Checkin, error)
	List(ctx context.Context, scope domain.Scope, from, to time.Time) []domain.Checkin
}

type ScopeResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (domain.Scope, error)
}

type MoodAwarder interface {
	Award(ctx context.Context, childRef, reason string, delta domain.MoodDelta) (domain.Mood, error)
}

type CreateCheckinInput struct {
	Emotion    string
	Mode       string
	Note       string
	DrawingRef string
	ClientID   string
	Date       time.Time
}

// CheckinService validates and idempotently ingests emotional events.
type CheckinService struct {
	repo  CheckinRepository
	scope ScopeResolver
	moods MoodAwarder
}

func NewCheckinService(repo CheckinRepository, scope ScopeResolver, moods MoodAwarder) *CheckinService {
	return &CheckinService{
		repo:  repo,
		scope: scope,
		moods: moods,
	}
}

// Create persists one check-in for the calling child and awards the
// matching mood delta. A failed award never fails the check-in.
func (s *CheckinService) Create(ctx context.Context, identity domain.Identity, input CreateCheckinInput) (domain.Checkin, error) {
	if !domain.ValidEmotion(input.Emotion) {
		return domain.Checkin{}, ErrInvalidEmotion
	}
	if !domain.ValidMode(input.Mode) {
		return domain.Checkin{}, ErrInvalidMode
	}

	scope, err := s.scope.Resolve(ctx, identity)
	if err != nil {
		return domain.Checkin{}, fmt.Errorf("s.scope.Resolve -> %w", err)
	}
	if scope.ClassID == "" || scope.StudentID == "" {
		return domain.Checkin{}, ErrNoClassScope
	}

	created, err := s.repo.Create(ctx, domain.Checkin{
		OrgID:      scope.OrgID,
		ClassID:    scope.ClassID,
		StudentID:  scope.StudentID,
		Emotion:    input.Emotion,
		Mode:       input.Mode,
		Note:       input.Note,
		DrawingRef: input.DrawingRef,
		ClientID:   input.ClientID,
		Date:       input.Date,
	})
	if err != nil {
		return domain.Checkin{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if _, err = s.moods.Award(ctx, identity.ID, "checkin_"+created.Emotion, domain.MoodDelta{}); err != nil {
		zap.L().Warn("mood award failed after check-in",
			zap.String("emotion", created.Emotion),
			zap.Error(err))
	}

	return created, nil
}

// List returns the caller's scoped check-ins, ascending by date.
func (s *CheckinService) List(ctx context.Context, identity domain.Identity, from, to time.Time) ([]domain.Checkin, error) {
	scope, err := s.scope.Resolve(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("s.scope.Resolve -> %w", err)
	}

	return s.repo.List(ctx, scope, from, to), nil
}
