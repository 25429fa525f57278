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

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type UserRepository struct {
	store store.Store
}

func NewUserRepository(st store.Store) *UserRepository {
	return &UserRepository{
		store: st,
	}
}

// Create inserts an identity record. Emails must be unique across
// parent and pro identities; children carry no email and skip the
// check.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if user.Email != "" {
		_, err := r.FindByEmail(ctx, user.Email)
		if err == nil {
			return domain.User{}, ErrUserEmailExists
		}
		if !errors.Is(err, ErrUserNotFound) {
			return domain.User{}, err
		}
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.store.Insert(ctx, store.CollectionUsers, user); err != nil {
		return domain.User{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := r.store.FindOne(ctx, store.CollectionUsers, store.Filter{"id": id}, &user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.store.FindOne(ctx, store.CollectionUsers, store.Filter{"email": email}, &user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return user, nil
}

// FindByLinkCode resolves a child identity by its permanent six-digit
// link code.
func (r *UserRepository) FindByLinkCode(ctx context.Context, linkCode string) (domain.User, error) {
	var user domain.User
	err := r.store.FindOne(ctx, store.CollectionUsers, store.Filter{
		"link_code": linkCode,
		"role":      domain.RoleChild,
	}, &user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return user, nil
}

// LinkChild records the parent→child weak link.
func (r *UserRepository) LinkChild(ctx context.Context, parentID, childID string) (domain.User, error) {
	parent, err := r.FindByID(ctx, parentID)
	if err != nil {
		return domain.User{}, err
	}

	parent.ChildID = childID
	parent.UpdatedAt = time.Now().UTC()

	if err = r.store.UpdateOne(ctx, store.CollectionUsers, store.Filter{"id": parent.ID}, parent); err != nil {
		return domain.User{}, fmt.Errorf("r.store.UpdateOne -> %w", err)
	}

	return parent, nil
}
