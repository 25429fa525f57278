package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
)

var ErrUnknownRole = errors.New("unknown role")

type ScopeDirectoryRepository interface {
	GetDefaultOrg(ctx context.Context) (domain.Org, error)
	GetClassByCode(ctx context.Context, orgID, code string) (domain.Class, error)
	GetStudentScope(ctx context.Context, childRef string) (domain.Scope, error)
}

type ScopeUserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

// ScopeService is the single source of truth for what an identity may
// see. Every read and write path resolves its scope here instead of
// re-deriving role logic per route.
type ScopeService struct {
	directory ScopeDirectoryRepository
	users     ScopeUserRepository
}

func NewScopeService(directory ScopeDirectoryRepository, users ScopeUserRepository) *ScopeService {
	return &ScopeService{
		directory: directory,
		users:     users,
	}
}

// Resolve maps an identity to its scope triple. An unresolvable class
// or student yields a scope with empty ClassID/StudentID bound to the
// default org; callers treat that as "no data in range", never as an
// error.
func (s *ScopeService) Resolve(ctx context.Context, identity domain.Identity) (domain.Scope, error) {
	org, err := s.directory.GetDefaultOrg(ctx)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("s.directory.GetDefaultOrg -> %w", err)
	}

	switch identity.Role {
	case domain.RoleChild:
		return s.resolveChild(ctx, org, identity.ID)

	case domain.RolePro:
		user, err := s.users.FindByID(ctx, identity.ID)
		if err != nil {
			return domain.Scope{}, fmt.Errorf("s.users.FindByID -> %w", err)
		}

		class, err := s.directory.GetClassByCode(ctx, org.ID, user.ClassCode)
		if err != nil {
			if errors.Is(err, repository.ErrClassNotFound) {
				return domain.Scope{OrgID: org.ID}, nil
			}

			return domain.Scope{}, fmt.Errorf("s.directory.GetClassByCode -> %w", err)
		}

		return domain.Scope{OrgID: org.ID, ClassID: class.ID}, nil

	case domain.RoleParent:
		user, err := s.users.FindByID(ctx, identity.ID)
		if err != nil {
			return domain.Scope{}, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		if user.ChildID == "" {
			return domain.Scope{OrgID: org.ID}, nil
		}

		return s.resolveChild(ctx, org, user.ChildID)

	default:
		return domain.Scope{}, ErrUnknownRole
	}
}

func (s *ScopeService) resolveChild(ctx context.Context, org domain.Org, childRef string) (domain.Scope, error) {
	scope, err := s.directory.GetStudentScope(ctx, childRef)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domain.Scope{OrgID: org.ID}, nil
		}

		return domain.Scope{}, fmt.Errorf("s.directory.GetStudentScope -> %w", err)
	}

	return scope, nil
}
