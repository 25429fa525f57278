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

var ErrAvatarNotFound = errors.New("avatar not found")

type AvatarRepository struct {
	store store.Store
}

func NewAvatarRepository(st store.Store) *AvatarRepository {
	return &AvatarRepository{
		store: st,
	}
}

func (r *AvatarRepository) Get(ctx context.Context, childRef string) (domain.Avatar, error) {
	var avatar domain.Avatar
	err := r.store.FindOne(ctx, store.CollectionAvatars, store.Filter{"child_ref": childRef}, &avatar)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Avatar{}, ErrAvatarNotFound
		}

		return domain.Avatar{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return avatar, nil
}

// Upsert stores the child's avatar, replacing any previous choice.
func (r *AvatarRepository) Upsert(ctx context.Context, avatar domain.Avatar) (domain.Avatar, error) {
	avatar.UpdatedAt = time.Now().UTC()

	existing, err := r.Get(ctx, avatar.ChildRef)
	if err != nil {
		if !errors.Is(err, ErrAvatarNotFound) {
			return domain.Avatar{}, err
		}

		avatar.ID = uuid.NewString()
		if err = r.store.Insert(ctx, store.CollectionAvatars, avatar); err != nil {
			return domain.Avatar{}, fmt.Errorf("r.store.Insert -> %w", err)
		}

		return avatar, nil
	}

	avatar.ID = existing.ID
	if err = r.store.UpdateOne(ctx, store.CollectionAvatars, store.Filter{"child_ref": avatar.ChildRef}, avatar); err != nil {
		return domain.Avatar{}, fmt.Errorf("r.store.UpdateOne -> %w", err)
	}

	return avatar, nil
}
