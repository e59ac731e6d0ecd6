package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edutracker/core"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
)

var (
	Themes    = []Theme{ThemeLight, ThemeDark}
	Languages = []Language{LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman}
)

// Settings are the personal preferences of a teacher. Language is stored, not applied.
type Settings struct {
	Theme         Theme    `json:"theme"`
	Language      Language `json:"language"`
	Notifications bool     `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{Theme: ThemeLight, Language: LanguageEnglish, Notifications: true}
}

// User is a teacher account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Credentials are submitted on login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// UpdateSettings defines what a teacher may change on the settings page.
// Empty or nil fields keep their current value.
type UpdateSettings struct {
	Name            string `json:"name" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
	Theme           string `json:"theme" validate:"omitempty,theme"`
	Language        string `json:"language" validate:"omitempty,language"`
	Notifications   *bool  `json:"notifications"`
}

func (us *UpdateSettings) Validate(ctx context.Context, validate *validator.Validate, orig User, svc *Service) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	us.Theme = core.CleanString(us.Theme, true /* lower */)
	us.Language = core.CleanString(us.Language, true /* lower */)

	if err := validate.Struct(us); err != nil {
		return err
	}
	if svc == nil || us.Email == orig.Email {
		return nil
	}
	return svc.checkUniqueness(ctx, us.Email, orig.ID)
}
