// Package activity keeps the feed of recent changes shown on the dashboard.
package activity

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Type string

const (
	TypeStudent    Type = "student"
	TypeScore      Type = "score"
	TypeAttendance Type = "attendance"
	TypeSubject    Type = "subject"
	TypeReport     Type = "report"
)

type Activity struct {
	ID     int       `json:"id"`
	Type   Type      `json:"type"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	At     time.Time `json:"at"` // UTC
}

type (
	Repository interface {
		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		// QueryRecentActivities returns at most n activities, newest first.
		QueryRecentActivities(ctx context.Context, n int) ([]Activity, error)
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (svc *Service) Record(ctx context.Context, typ Type, action, target string) error {
	_, err := svc.repo.CreateActivity(ctx, Activity{
		Type:   typ,
		Action: action,
		Target: target,
		At:     svc.now().UTC(),
	})
	return errors.Wrap(err, "recording activity")
}

func (svc *Service) Recent(ctx context.Context, n int) ([]Activity, error) {
	if n <= 0 {
		return []Activity{}, nil
	}
	return svc.repo.QueryRecentActivities(ctx, n)
}
