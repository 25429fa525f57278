package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kidmood/kidmood-api/internal/domain"
	"github.com/kidmood/kidmood-api/internal/store"
)

// DefaultListWindow is the trailing window applied when a list request
// carries no explicit date range.
const DefaultListWindow = 7 * 24 * time.Hour

type CheckinRepository struct {
	store store.Store
}

func NewCheckinRepository(st store.Store) *CheckinRepository {
	return &CheckinRepository{
		store: st,
	}
}

// Create persists one check-in. When the caller supplies a ClientID,
// the write is idempotent per student: an existing record with the same
// (ClientID, StudentID) is returned unchanged and nothing new is
// stored.
func (r *CheckinRepository) Create(ctx context.Context, checkin domain.Checkin) (domain.Checkin, error) {
	if checkin.ClientID != "" {
		var existing domain.Checkin
		err := r.store.FindOne(ctx, store.CollectionCheckins, store.Filter{
			"client_id":  checkin.ClientID,
			"student_id": checkin.StudentID,
		}, &existing)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Checkin{}, fmt.Errorf("r.store.FindOne -> %w", err)
		}
	}

	now := time.Now().UTC()
	checkin.ID = uuid.NewString()
	checkin.CreatedAt = now
	if checkin.Date.IsZero() {
		checkin.Date = now
	}

	if err := r.store.Insert(ctx, store.CollectionCheckins, checkin); err != nil {
		return domain.Checkin{}, fmt.Errorf("r.store.Insert -> %w", err)
	}

	return checkin, nil
}

// List returns the check-ins for an org/class scope whose UTC calendar
// date falls inside [from, to], ascending by date. Zero bounds default
// to the trailing seven days. Backend read faults degrade to an empty
// result so dashboards never fail on missing data.
func (r *CheckinRepository) List(ctx context.Context, scope domain.Scope, from, to time.Time) []domain.Checkin {
	if scope.OrgID == "" || scope.ClassID == "" {
		return []domain.Checkin{}
	}

	now := time.Now().UTC()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.Add(-DefaultListWindow)
	}
	fromDay := from.UTC().Format("2006-01-02")
	toDay := to.UTC().Format("2006-01-02")

	var all []domain.Checkin
	err := r.store.Find(ctx, store.CollectionCheckins, store.Filter{
		"org_id":   scope.OrgID,
		"class_id": scope.ClassID,
	}, &all)
	if err != nil {
		zap.L().Warn("check-in read degraded to empty result", zap.Error(err))

		return []domain.Checkin{}
	}

	checkins := make([]domain.Checkin, 0, len(all))
	for _, c := range all {
		day := c.Day()
		if day < fromDay || day > toDay {
			continue
		}
		checkins = append(checkins, c)
	}

	sort.Slice(checkins, func(i, j int) bool {
		return checkins[i].Date.Before(checkins[j].Date)
	})

	return checkins
}
