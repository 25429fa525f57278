package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kidmood/kidmood-api/internal/domain"
)

// moodDecayRate is how much of the distance toward the neutral baseline
// each axis covers per elapsed day without updates.
const moodDecayRate = 0.03

var ErrUnknownReason = errors.New("unknown award reason")

// moodDeltaTable maps semantic award reasons to their fixed deltas.
var moodDeltaTable = map[string]domain.MoodDelta{
	"checkin_happy":   {Joy: 6, Love: 2, Sadness: -2, Anger: -1},
	"checkin_calm":    {Calm: 6, Joy: 2, Anger: -2},
	"checkin_tired":   {Energy: -4, Calm: 2, Sadness: 1},
	"checkin_sad":     {Sadness: 5, Joy: -2, Energy: -1, Love: 1},
	"checkin_curious": {Energy: 4, Joy: 3},
	"checkin_angry":   {Anger: 6, Calm: -3, Joy: -1},
	"daily_checkin":   {Love: 1, Joy: 1},
}

type MoodRepository interface {
	GetOrCreate(ctx context.Context, childRef string) (domain.Mood, error)
	Update(ctx context.Context, mood domain.Mood) error
}

// MoodService maintains the per-child six-axis accumulator. Every read
// first applies lazy time decay; awards always apply to the decayed
// baseline, never a stale one.
type MoodService struct {
	repo MoodRepository
}

func NewMoodService(repo MoodRepository) *MoodService {
	return &MoodService{
		repo: repo,
	}
}

// Get returns the child's mood with decay applied and persisted.
func (s *MoodService) Get(ctx context.Context, childRef string) (domain.Mood, error) {
	mood, err := s.repo.GetOrCreate(ctx, childRef)
	if err != nil {
		return domain.Mood{}, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}

	mood, decayed := applyDecay(mood, time.Now().UTC())
	if decayed {
		if err = s.repo.Update(ctx, mood); err != nil {
			return domain.Mood{}, fmt.Errorf("s.repo.Update -> %w", err)
		}
	}

	return mood, nil
}

// Award applies a named or explicit delta. The delta lands strictly
// after decay recomputation for the same read.
func (s *MoodService) Award(ctx context.Context, childRef, reason string, delta domain.MoodDelta) (domain.Mood, error) {
	if delta.IsZero() {
		tabled, ok := moodDeltaTable[reason]
		if !ok {
			return domain.Mood{}, ErrUnknownReason
		}
		delta = tabled
	}

	mood, err := s.repo.GetOrCreate(ctx, childRef)
	if err != nil {
		return domain.Mood{}, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}

	now := time.Now().UTC()
	mood, _ = applyDecay(mood, now)
	mood.Values = applyDelta(mood.Values, delta)
	mood.LastUpdated = now

	if err = s.repo.Update(ctx, mood); err != nil {
		return domain.Mood{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return mood, nil
}

// applyDecay moves every axis toward the neutral baseline by the decay
// rate per whole elapsed day. Applied exactly once per elapsed-day
// count; the refreshed LastUpdated prevents compounding the same
// window twice.
func applyDecay(mood domain.Mood, now time.Time) (domain.Mood, bool) {
	elapsedDays := int(now.Sub(mood.LastUpdated) / (24 * time.Hour))
	if elapsedDays < 1 {
		return mood, false
	}

	mood.Values = DecayValues(mood.Values, elapsedDays)
	mood.LastUpdated = now

	return mood, true
}

// DecayValues contracts each axis toward 50 for the given whole-day
// count. The sequence approaches the midpoint monotonically and never
// overshoots it.
func DecayValues(values domain.MoodValues, elapsedDays int) domain.MoodValues {
	values.Love = decayValue(values.Love, elapsedDays)
	values.Joy = decayValue(values.Joy, elapsedDays)
	values.Calm = decayValue(values.Calm, elapsedDays)
	values.Energy = decayValue(values.Energy, elapsedDays)
	values.Sadness = decayValue(values.Sadness, elapsedDays)
	values.Anger = decayValue(values.Anger, elapsedDays)

	return values
}

func decayValue(value, elapsedDays int) int {
	if elapsedDays <= 0 {
		return value
	}

	v := float64(value)
	decayed := v + (float64(domain.MoodDefault)-v)*moodDecayRate*float64(elapsedDays)

	// A large elapsed-day count must land on the baseline, not past it.
	if value > domain.MoodDefault && decayed < float64(domain.MoodDefault) {
		decayed = float64(domain.MoodDefault)
	}
	if value < domain.MoodDefault && decayed > float64(domain.MoodDefault) {
		decayed = float64(domain.MoodDefault)
	}

	return clampAxis(int(math.Round(decayed)))
}

func applyDelta(values domain.MoodValues, delta domain.MoodDelta) domain.MoodValues {
	values.Love = clampAxis(values.Love + delta.Love)
	values.Joy = clampAxis(values.Joy + delta.Joy)
	values.Calm = clampAxis(values.Calm + delta.Calm)
	values.Energy = clampAxis(values.Energy + delta.Energy)
	values.Sadness = clampAxis(values.Sadness + delta.Sadness)
	values.Anger = clampAxis(values.Anger + delta.Anger)

	return values
}

func clampAxis(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}

	return value
}
