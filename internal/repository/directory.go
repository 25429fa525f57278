package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/store"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrClassNotFound   = errors.New("class not found")
)

// DirectoryRepository resolves and lazily creates the org/class/student
// hierarchy. Get-or-create operations serialize through a mutex so the
// lazy "demo" org and per-code classes are never duplicated by
// concurrent first access.
type DirectoryRepository struct {
	mu    sync.Mutex
	store store.Store
}

func NewDirectoryRepository(st store.Store) *DirectoryRepository {
	return &DirectoryRepository{
		store: st,
	}
}

// GetDefaultOrg returns the "demo" org, creating it on first access.
func (r *DirectoryRepository) GetDefaultOrg(ctx context.Context) (domain.Org, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var org domain.Org
	err := r.store.FindOne(ctx, store.CollectionOrgs, store.Filter{"code": domain.DefaultOrgCode}, &org)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Org{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	org = domain.Org{
		ID:        uuid.NewString(),
		Code:      domain.DefaultOrgCode,
		Name:      "Demo",
		CreatedAt: time.Now().UTC(),
	}
	if err = r.store.Insert(ctx, store.CollectionOrgs, org); err != nil {
		return domain.Org{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return org, nil
}

// GetOrCreateClass returns the class with the given code inside an org,
// creating it on first reference. Codes are unique per org.
func (r *DirectoryRepository) GetOrCreateClass(ctx context.Context, orgID, code, name string) (domain.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var class domain.Class
	err := r.store.FindOne(ctx, store.CollectionClasses, store.Filter{
		"org_id": orgID,
		"code":   code,
	}, &class)
	if err == nil {
		return class, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Class{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	if name == "" {
		name = "Class " + code
	}
	class = domain.Class{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		OrgID:     orgID,
		CreatedAt: time.Now().UTC(),
	}
	if err = r.store.Insert(ctx, store.CollectionClasses, class); err != nil {
		return domain.Class{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return class, nil
}

// GetClassByCode looks up a class without creating it.
func (r *DirectoryRepository) GetClassByCode(ctx context.Context, orgID, code string) (domain.Class, error) {
	var class domain.Class
	err := r.store.FindOne(ctx, store.CollectionClasses, store.Filter{
		"org_id": orgID,
		"code":   code,
	}, &class)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Class{}, ErrClassNotFound
		}

		return domain.Class{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return class, nil
}

// GetOrCreateStudent returns the student for (childRef, classID),
// creating the record on first reference. Resolution is always by
// childRef once an identity exists, never by display name.
func (r *DirectoryRepository) GetOrCreateStudent(ctx context.Context, orgID, classID, childRef, displayName string) (domain.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var student domain.Student
	err := r.store.FindOne(ctx, store.CollectionStudents, store.Filter{
		"class_id":  classID,
		"child_ref": childRef,
	}, &student)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Student{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	student = domain.Student{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		ClassID:     classID,
		OrgID:       orgID,
		ChildRef:    childRef,
		CreatedAt:   time.Now().UTC(),
	}
	if err = r.store.Insert(ctx, store.CollectionStudents, student); err != nil {
		return domain.Student{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return student, nil
}

// GetStudentScope resolves the scope triple for a child identity.
func (r *DirectoryRepository) GetStudentScope(ctx context.Context, childRef string) (domain.Scope, error) {
	var student domain.Student
	err := r.store.FindOne(ctx, store.CollectionStudents, store.Filter{"child_ref": childRef}, &student)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Scope{}, ErrStudentNotFound
		}

		return domain.Scope{}, fmt.Errorf("r.store.FindOne -> %w", err)
	}

	return domain.Scope{
		OrgID:     student.OrgID,
		ClassID:   student.ClassID,
		StudentID: student.ID,
	}, nil
}

// DeleteClass tears a class down, cascading to its students and their
// check-ins. Returns ErrClassNotFound when the code is unknown.
func (r *DirectoryRepository) DeleteClass(ctx context.Context, orgID, code string) error {
	class, err := r.GetClassByCode(ctx, orgID, code)
	if err != nil {
		return err
	}

	if _, err = r.store.DeleteMany(ctx, store.CollectionCheckins, store.Filter{"class_id": class.ID}); err != nil {
		return fmt.Errorf("r.store.DeleteMany(checkins) -> %w", err)
	}
	if _, err = r.store.DeleteMany(ctx, store.CollectionStudents, store.Filter{"class_id": class.ID}); err != nil {
		return fmt.Errorf("r.store.DeleteMany(students) -> %w", err)
	}
	if _, err = r.store.DeleteMany(ctx, store.CollectionClasses, store.Filter{"id": class.ID}); err != nil {
		return fmt.Errorf("r.store.DeleteMany(classes) -> %w", err)
	}

	return nil
}
