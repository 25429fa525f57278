package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/repository"
	"github.com/kidmood/kidmood-api/internal/service"
)

type scopeFixture struct {
	directory *repository.DirectoryRepository
	users     *repository.UserRepository
	auth      *service.AuthService
	scope     *service.ScopeService
}

func newScopeFixture(t *testing.T) scopeFixture {
	t.Helper()

	st := newTestStore(t)
	directory := repository.NewDirectoryRepository(st)
	users := repository.NewUserRepository(st)

	return scopeFixture{
		directory: directory,
		users:     users,
		auth:      service.NewAuthService(users, directory, repository.NewPinRepository(st)),
		scope:     service.NewScopeService(directory, users),
	}
}

func TestScopeService_ChildResolvesToOwnStudent(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	child, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)

	scope, err := f.scope.Resolve(ctx, domain.Identity{ID: child.ID, Role: domain.RoleChild})
	require.NoError(t, err)
	assert.NotEmpty(t, scope.OrgID)
	assert.NotEmpty(t, scope.ClassID)
	assert.NotEmpty(t, scope.StudentID)
}

func TestScopeService_ChildWithoutStudentRecord(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	scope, err := f.scope.Resolve(ctx, domain.Identity{ID: "ghost", Role: domain.RoleChild})
	require.NoError(t, err)
	assert.NotEmpty(t, scope.OrgID)
	assert.Empty(t, scope.ClassID)
	assert.Empty(t, scope.StudentID)
}

func TestScopeService_ProResolvesToClass(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	_, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)

	pro, err := f.auth.Signup(ctx, domain.User{
		Email:     "teacher@example.org",
		Password:  "s3cret-pass",
		Role:      domain.RolePro,
		ClassCode: "1234",
	})
	require.NoError(t, err)

	scope, err := f.scope.Resolve(ctx, domain.Identity{ID: pro.ID, Role: domain.RolePro})
	require.NoError(t, err)
	assert.NotEmpty(t, scope.ClassID)
	assert.Empty(t, scope.StudentID, "class scope must not pin a single student")
}

func TestScopeService_ParentUnlinked(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	parent, err := f.auth.Signup(ctx, domain.User{
		Email:    "parent@example.org",
		Password: "s3cret-pass",
		Role:     domain.RoleParent,
	})
	require.NoError(t, err)

	scope, err := f.scope.Resolve(ctx, domain.Identity{ID: parent.ID, Role: domain.RoleParent})
	require.NoError(t, err)
	assert.NotEmpty(t, scope.OrgID)
	assert.Empty(t, scope.ClassID)
	assert.Empty(t, scope.StudentID)
}

func TestScopeService_ParentFollowsLinkedChild(t *testing.T) {
	f := newScopeFixture(t)
	ctx := context.Background()

	child, err := f.auth.SignupChild(ctx, "Otto", "1234")
	require.NoError(t, err)

	parent, err := f.auth.Signup(ctx, domain.User{
		Email:    "parent@example.org",
		Password: "s3cret-pass",
		Role:     domain.RoleParent,
	})
	require.NoError(t, err)

	_, err = f.users.LinkChild(ctx, parent.ID, child.ID)
	require.NoError(t, err)

	parentScope, err := f.scope.Resolve(ctx, domain.Identity{ID: parent.ID, Role: domain.RoleParent})
	require.NoError(t, err)

	childScope, err := f.scope.Resolve(ctx, domain.Identity{ID: child.ID, Role: domain.RoleChild})
	require.NoError(t, err)
	assert.Equal(t, childScope, parentScope)
}

func TestScopeService_UnknownRole(t *testing.T) {
	f := newScopeFixture(t)

	_, err := f.scope.Resolve(context.Background(), domain.Identity{ID: "x", Role: "admin"})
	assert.ErrorIs(t, err, service.ErrUnknownRole)
}
