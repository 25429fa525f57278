package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/store"
)

// PinTTL bounds how long a freshly minted pin stays claimable.
const PinTTL = 5 * time.Minute

var (
	ErrPinNotFound = errors.New("pin not found")
	ErrPinExpired  = errors.New("pin expired")
)

type PinRepository struct {
	store store.Store
}

func NewPinRepository(st store.Store) *PinRepository {
	return &PinRepository{
		store: st,
	}
}

// Create mints a four-digit single-use pin for a child. Any previous
// pins for the same child are invalidated first.
func (r *PinRepository) Create(ctx context.Context, childID string) (domain.Pin, error) {
	if _, err := r.store.DeleteMany(ctx, store.CollectionPins, store.Filter{"child_id": childID}); err != nil {
		return domain.Pin{}, fmt.Errorf("r.store.DeleteMany -> %w", err)
	}

	pin := domain.Pin{
		ID:        uuid.NewString(),
		Pin:       fmt.Sprintf("%04d", rand.Intn(10000)),
		ChildID:   childID,
		ExpiresAt: time.Now().UTC().Add(PinTTL),
	}
	if err := r.store.Insert(ctx, store.CollectionPins, pin); err != nil {
		return domain.Pin{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return pin, nil
}

// Consume validates a pin and deletes it, returning the child it was
// minted for. A pin is usable exactly once.
func (r *PinRepository) Consume(ctx context.Context, code string) (string, error) {
	var pin domain.Pin
	err := r.store.FindOne(ctx, store.CollectionPins, store.Filter{"pin": code}, &pin)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrPinNotFound
		}

		return "", fmt.Errorf("r.store.FindOne -> %w", err)
	}

	if _, err = r.store.DeleteMany(ctx, store.CollectionPins, store.Filter{"id": pin.ID}); err != nil {
		return "", fmt.Errorf("r.store.DeleteMany -> %w", err)
	}

	if time.Now().UTC().After(pin.ExpiresAt) {
		return "", ErrPinExpired
	}

	return pin.ChildID, nil
}

// DeleteExpired sweeps pins past their TTL. Safe to run concurrently
// with normal reads; the store serializes access.
func (r *PinRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var pins []domain.Pin
	if err := r.store.Find(ctx, store.CollectionPins, store.Filter{}, &pins); err != nil {
		return 0, fmt.Errorf("r.store.Find -> %w", err)
	}

	var deleted int64
	for _, pin := range pins {
		if now.After(pin.ExpiresAt) {
			n, err := r.store.DeleteMany(ctx, store.CollectionPins, store.Filter{"id": pin.ID})
			if err != nil {
				return deleted, fmt.Errorf("r.store.DeleteMany -> %w", err)
			}
			deleted += n
		}
	}

	return deleted, nil
}
