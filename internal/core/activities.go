package core

import (
	"context"
	"slices"

	"farmboard/pkg/domain"
)

// DefaultRecentActivities is the limit used when GetRecentActivities gets a
// non-positive limit.
const DefaultRecentActivities = 5

// ActivityService is the only entry point to the activity store.
type ActivityService struct {
	svc   *Service
	store *Store[domain.Activity]
}

// GetAll returns every activity in insertion order.
func (a *ActivityService) GetAll(ctx context.Context) ([]domain.Activity, error) {
	var out []domain.Activity
	err := a.svc.run(ctx, "activities.get_all", domain.EntityActivity, func() (int, error) {
		out = a.store.List()
		return 0, nil
	})
	return out, err
}

// GetByID returns the activity with id or domain.ErrNotFound.
func (a *ActivityService) GetByID(ctx context.Context, id int) (domain.Activity, error) {
	var out domain.Activity
	err := a.svc.run(ctx, "activities.get", domain.EntityActivity, func() (int, error) {
		var err error
		out, err = a.store.Find(id)
		return id, err
	})
	return out, err
}

// GetByFieldID returns the activities whose field reference equals fieldID
// as text, in store order.
func (a *ActivityService) GetByFieldID(ctx context.Context, fieldID string) ([]domain.Activity, error) {
	var out []domain.Activity
	err := a.svc.run(ctx, "activities.by_field", domain.EntityActivity, func() (int, error) {
		out = a.store.Filter(func(act domain.Activity) bool { return act.FieldID == fieldID })
		return 0, nil
	})
	return out, err
}

// GetRecentActivities returns up to limit activities, newest date first.
// Activities sharing a date keep their store order.
func (a *ActivityService) GetRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = DefaultRecentActivities
	}
	var out []domain.Activity
	err := a.svc.run(ctx, "activities.recent", domain.EntityActivity, func() (int, error) {
		out = RecentActivities(a.store.List(), limit)
		return 0, nil
	})
	return out, err
}

// RecentActivities stable-sorts activities by date descending and truncates
// the result to limit. The input slice is reordered in place.
func RecentActivities(activities []domain.Activity, limit int) []domain.Activity {
	slices.SortStableFunc(activities, func(x, y domain.Activity) int {
		switch {
		case x.Date.After(y.Date):
			return -1
		case x.Date.Before(y.Date):
			return 1
		}
		return 0
	})
	if limit >= 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// Create appends a new activity. The field reference is not checked.
func (a *ActivityService) Create(ctx context.Context, in domain.ActivityInput) (domain.Activity, error) {
	var out domain.Activity
	err := a.svc.run(ctx, "activities.create", domain.EntityActivity, func() (int, error) {
		var err error
		out, err = a.store.Insert(func(id int) domain.Activity {
			return domain.Activity{
				ID:          id,
				FieldID:     in.FieldID,
				Type:        in.Type,
				Date:        in.Date,
				Description: in.Description,
			}
		})
		return out.ID, err
	})
	return out, err
}

// Update shallow-merges patch onto the activity with id.
func (a *ActivityService) Update(ctx context.Context, id int, patch domain.ActivityPatch) (domain.Activity, error) {
	var out domain.Activity
	err := a.svc.run(ctx, "activities.update", domain.EntityActivity, func() (int, error) {
		var err error
		out, err = a.store.Update(id, patch.Apply)
		return id, err
	})
	return out, err
}

// Delete removes the activity with id and returns it.
func (a *ActivityService) Delete(ctx context.Context, id int) (domain.Activity, error) {
	var out domain.Activity
	err := a.svc.run(ctx, "activities.delete", domain.EntityActivity, func() (int, error) {
		var err error
		out, err = a.store.Remove(id)
		return id, err
	})
	return out, err
}
