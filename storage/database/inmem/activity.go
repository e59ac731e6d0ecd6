package inmemdb

import (
	"context"

	"github.com/trezcool/edutracker/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateActivity(_ context.Context, act activity.Activity) (activity.Activity, error) {
	t := repo.db.activity
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.pk++
	act.ID = t.pk
	t.events = append(t.events, act)
	return act, nil
}

func (repo *activityRepository) QueryRecentActivities(_ context.Context, n int) ([]activity.Activity, error) {
	t := repo.db.activity
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	if n > len(t.events) {
		n = len(t.events)
	}
	recent := make([]activity.Activity, 0, n)
	for i := len(t.events) - 1; i >= len(t.events)-n; i-- {
		recent = append(recent, t.events[i])
	}
	return recent, nil
}
