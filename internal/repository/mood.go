package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/store"
)

type MoodRepository struct {
	store store.Store
}

func NewMoodRepository(st store.Store) *MoodRepository {
	return &MoodRepository{
		store: st,
	}
}

// GetOrCreate returns the mood record for a child, creating it with
// every axis at the neutral baseline on first access.
func (r *MoodRepository) GetOrCreate(ctx context.Context, childRef string) (domain.Mood, error) {
	var mood domain.Mood
	err := r.store.FindOne(ctx, store.CollectionMoods, store.Filter{"child_ref": childRef}, &mood)
	if err == nil {
		return mood, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Mood{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	mood = domain.Mood{
		ID:          uuid.NewString(),
		ChildRef:    childRef,
		Values:      domain.NeutralMoodValues(),
		LastUpdated: time.Now().UTC(),
	}
	if err = r.store.Insert(ctx, store.CollectionMoods, mood); err != nil {
		return domain.Mood{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return mood, nil
}

// Update replaces the stored mood record in place.
func (r *MoodRepository) Update(ctx context.Context, mood domain.Mood) error {
	err := r.store.UpdateOne(ctx, store.CollectionMoods, store.Filter{"child_ref": mood.ChildRef}, mood)
	if err != nil {
		return fmt.Errorf("r.store.UpdateOne -> %w", err)
	}

	return nil
}
