package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/crypto/bcrypt"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
	ErrPinNotFound     = repository.ErrPinNotFound
	ErrPinExpired      = repository.ErrPinExpired
	ErrLinkCodeUnknown = errors.New("link code unknown")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByLinkCode(ctx context.Context, linkCode string) (domain.User, error)
	LinkChild(ctx context.Context, parentID, childID string) (domain.User, error)
}

type AuthDirectoryRepository interface {
	GetDefaultOrg(ctx context.Context) (domain.Org, error)
	GetOrCreateClass(ctx context.Context, orgID, code, name string) (domain.Class, error)
	GetOrCreateStudent(ctx context.Context, orgID, classID, childRef, displayName string) (domain.Student, error)
}

type AuthPinRepository interface {
	Create(ctx context.Context, childID string) (domain.Pin, error)
	Consume(ctx context.Context, code string) (string, error)
}

type AuthService struct {
	users     AuthUserRepository
	directory AuthDirectoryRepository
	pins      AuthPinRepository
}

func NewAuthService(users AuthUserRepository, directory AuthDirectoryRepository, pins AuthPinRepository) *AuthService {
	return &AuthService{
		users:     users,
		directory: directory,
		pins:      pins,
	}
}

// SignupChild creates a child identity plus its student record inside
// the class named by classCode. Children authenticate without email;
// the permanent six-digit link code lets a parent claim the link later.
func (s *AuthService) SignupChild(ctx context.Context, name, classCode string) (domain.User, error) {
	org, err := s.directory.GetDefaultOrg(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.directory.GetDefaultOrg -> %w", err)
	}

	class, err := s.directory.GetOrCreateClass(ctx, org.ID, classCode, "")
	if err != nil {
		return domain.User{}, fmt.Errorf("s.directory.GetOrCreateClass -> %w", err)
	}

	linkCode, err := s.generateLinkCode(ctx)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:     name,
		Role:     domain.RoleChild,
		LinkCode: linkCode,
		OrgID:    org.ID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	if _, err = s.directory.GetOrCreateStudent(ctx, org.ID, class.ID, user.ID, name); err != nil {
		return domain.User{}, fmt.Errorf("s.directory.GetOrCreateStudent -> %w", err)
	}

	return user, nil
}

// Signup registers a parent or pro identity.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	org, err := s.directory.GetDefaultOrg(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.directory.GetDefaultOrg -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)
	user.OrgID = org.ID

	if user.Role == domain.RolePro && user.ClassCode != "" {
		if _, err = s.directory.GetOrCreateClass(ctx, org.ID, user.ClassCode, ""); err != nil {
			return domain.User{}, fmt.Errorf("s.directory.GetOrCreateClass -> %w", err)
		}
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

// CreatePin mints a single-use pin for the calling child.
func (s *AuthService) CreatePin(ctx context.Context, childID string) (domain.Pin, error) {
	if _, err := s.users.FindByID(ctx, childID); err != nil {
		return domain.Pin{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	pin, err := s.pins.Create(ctx, childID)
	if err != nil {
		return domain.Pin{}, fmt.Errorf("s.pins.Create -> %w", err)
	}

	return pin, nil
}

// ClaimPin consumes a pin and links the parent to the pin's child.
func (s *AuthService) ClaimPin(ctx context.Context, parentID, code string) (domain.User, error) {
	childID, err := s.pins.Consume(ctx, code)
	if err != nil {
		return domain.User{}, err
	}

	parent, err := s.users.LinkChild(ctx, parentID, childID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.LinkChild -> %w", err)
	}

	return parent, nil
}

// ClaimLinkCode links a parent via a child's permanent code. Unlike
// pins, link codes stay valid and reusable.
func (s *AuthService) ClaimLinkCode(ctx context.Context, parentID, code string) (domain.User, error) {
	child, err := s.users.FindByLinkCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrLinkCodeUnknown
		}

		return domain.User{}, fmt.Errorf("s.users.FindByLinkCode -> %w", err)
	}

	parent, err := s.users.LinkChild(ctx, parentID, child.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.LinkChild -> %w", err)
	}

	return parent, nil
}

// generateLinkCode draws six-digit codes until one is unused.
func (s *AuthService) generateLinkCode(ctx context.Context) (string, error) {
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		_, err := s.users.FindByLinkCode(ctx, code)
		if errors.Is(err, repository.ErrUserNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("s.users.FindByLinkCode -> %w", err)
		}
	}

	return "", errors.New("could not allocate a free link code")
}
