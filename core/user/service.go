package user

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
		now  func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (svc *Service) checkUniqueness(ctx context.Context, email, excludedID string) error {
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	case usr.ID != excludedID:
		return core.NewFieldValidationError("email", ErrEmailExists)
	}
	return nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

// GetOrCreate returns the account of email, creating it with default settings when missing.
// An empty name is derived from the email's local part.
func (svc *Service) GetOrCreate(ctx context.Context, email, name, pwd string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if name = core.CleanString(name); name == "" {
		name = nameFromEmail(email)
	}
	now := svc.now().UTC()
	usr = User{
		Name:      name,
		Email:     email,
		Settings:  DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err = usr.SetPassword(pwd); err != nil {
			return User{}, err
		}
	}
	created, err := svc.repo.CreateUser(ctx, usr)
	if errors.Is(err, ErrEmailExists) {
		// created concurrently since the lookup
		return svc.repo.GetUserByEmail(ctx, email)
	}
	return created, err
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = svc.now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// UpdateSettings applies a validated UpdateSettings to the user's account.
func (svc *Service) UpdateSettings(ctx context.Context, id string, us UpdateSettings) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.Name = us.Name
	usr.Email = us.Email
	if us.Theme != "" {
		usr.Settings.Theme = Theme(us.Theme)
	}
	if us.Language != "" {
		usr.Settings.Language = Language(us.Language)
	}
	if us.Notifications != nil {
		usr.Settings.Notifications = *us.Notifications
	}
	if us.Password != "" {
		if err = usr.SetPassword(us.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = svc.now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// nameFromEmail turns "sarah.johnson@school.edu" into "Sarah Johnson".
func nameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+' || unicode.IsDigit(r)
	})
	for i, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	if len(parts) == 0 {
		return "Teacher"
	}
	return strings.Join(parts, " ")
}
