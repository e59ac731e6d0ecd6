package subject

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrCodeExists = errors.New("a subject with this code already exists")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, subj Subject) (Subject, error)
		// QuerySubjects returns the subjects of class (all when empty), ordered by class then name.
		QuerySubjects(ctx context.Context, class string) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		GetSubjectByCode(ctx context.Context, code string) (Subject, error)
		DeleteSubject(ctx context.Context, id string) error
	}

	// StudentCounter counts the students enrolled in a class.
	StudentCounter interface {
		Count(ctx context.Context, class string) (int, error)
	}

	ActivityRecorder interface {
		Record(ctx context.Context, typ activity.Type, action, target string) error
	}

	Service struct {
		repo       Repository
		students   StudentCounter
		activities ActivityRecorder
	}
)

func NewService(repo Repository, students StudentCounter, activities ActivityRecorder) *Service {
	return &Service{repo: repo, students: students, activities: activities}
}

func (svc *Service) checkUniqueness(ctx context.Context, code string) error {
	_, err := svc.repo.GetSubjectByCode(ctx, code)
	switch {
	case err == nil:
		return core.NewFieldValidationError("code", ErrCodeExists)
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return err
	}
}

func (svc *Service) withStudents(ctx context.Context, subj Subject) (Subject, error) {
	n, err := svc.students.Count(ctx, subj.Class)
	if err != nil {
		return Subject{}, errors.Wrap(err, "counting students")
	}
	subj.Students = n
	return subj, nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	subj, err := svc.repo.CreateSubject(ctx, Subject{
		Name:      ns.Name,
		Code:      ns.Code,
		Class:     ns.Class,
		Teacher:   ns.Teacher,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Subject{}, errors.Wrap(err, "creating subject")
	}
	if svc.activities != nil {
		if err = svc.activities.Record(ctx, activity.TypeSubject, "Added new subject", subj.Name); err != nil {
			return Subject{}, err
		}
	}
	return svc.withStudents(ctx, subj)
}

func (svc *Service) Query(ctx context.Context, class string) ([]Subject, error) {
	subjects, err := svc.repo.QuerySubjects(ctx, core.CleanString(class))
	if err != nil {
		return nil, err
	}
	for i := range subjects {
		if subjects[i], err = svc.withStudents(ctx, subjects[i]); err != nil {
			return nil, err
		}
	}
	return subjects, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	subj, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	return svc.withStudents(ctx, subj)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	subj, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteSubject(ctx, id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if svc.activities != nil {
		return svc.activities.Record(ctx, activity.TypeSubject, "Removed subject", subj.Name)
	}
	return nil
}
