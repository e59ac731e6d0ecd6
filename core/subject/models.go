package subject

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
)

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Class     string    `json:"class"`
	Teacher   string    `json:"teacher"`
	Students  int       `json:"students"`   // computed from the class roster
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewSubject contains information needed to create a new Subject. Every field is required.
type NewSubject struct {
	Name    string `json:"name" yaml:"name" validate:"required,notblank,max=100"`
	Code    string `json:"code" yaml:"code" validate:"required,notblank,subjcode"`
	Class   string `json:"class" yaml:"class" validate:"required,notblank,max=50"`
	Teacher string `json:"teacher" yaml:"teacher" validate:"required,notblank,max=100"`
}

func (ns *NewSubject) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = strings.ToUpper(core.CleanString(ns.Code))
	ns.Class = core.CleanString(ns.Class)
	ns.Teacher = core.CleanString(ns.Teacher)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	return svc.checkUniqueness(ctx, ns.Code)
}
