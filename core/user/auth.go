package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Authenticator checks credentials and returns the matching account.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (User, error)
}

type mockAuthenticator struct {
	delay time.Duration
	svc   *Service
}

var _ Authenticator = (*mockAuthenticator)(nil)

// NewMockAuthenticator returns an Authenticator that waits delay, to stand in for a network
// round-trip, then accepts any credentials. The account is created on first login.
func NewMockAuthenticator(delay time.Duration, svc *Service) Authenticator {
	return &mockAuthenticator{delay: delay, svc: svc}
}

func (a *mockAuthenticator) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-timer.C:
		}
	}

	usr, err := a.svc.GetOrCreate(ctx, creds.Email, "", creds.Password)
	if err != nil {
		return User{}, errors.Wrap(err, "getting account")
	}
	usr, err = a.svc.SetLastLogin(ctx, usr)
	return usr, errors.Wrap(err, "setting lastLogin")
}
