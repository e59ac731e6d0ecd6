// Package seed loads the sample school into the repositories.
package seed

import (
	"bytes"
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
	"github.com/trezcool/edutracker/core/user"
)

type (
	Teacher struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	}

	Score struct {
		Subject     string `yaml:"subject"`
		CA          int    `yaml:"ca"`
		Examination int    `yaml:"exam"`
		Notes       string `yaml:"notes"`
	}

	Student struct {
		student.NewStudent `yaml:",inline"`
		Attendance         grading.Attendance `yaml:"attendance"`
		Scores             []Score            `yaml:"scores"`
	}

	Fixture struct {
		Term     string               `yaml:"term"`
		Teacher  Teacher              `yaml:"teacher"`
		Subjects []subject.NewSubject `yaml:"subjects"`
		Students []Student            `yaml:"students"`
	}

	Services struct {
		Validate   *validator.Validate
		UserSvc    *user.Service
		StudentSvc *student.Service
		SubjectSvc *subject.Service
	}

	// Summary counts what Load created.
	Summary struct {
		Students int
		Subjects int
		Scores   int
	}
)

// Parse decodes a YAML fixture. Unknown keys are rejected.
func Parse(data []byte) (Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixture{}, errors.Wrap(err, "decoding seed fixture")
	}
	if fx.Term == "" {
		return Fixture{}, errors.New("seed fixture has no term")
	}
	return fx, nil
}

// Load parses data and creates its content through the services.
// Every record goes through the same validation as API input.
func Load(ctx context.Context, data []byte, svcs Services) (Summary, error) {
	fx, err := Parse(data)
	if err != nil {
		return Summary{}, err
	}
	return fx.Load(ctx, svcs)
}

func (fx Fixture) Load(ctx context.Context, svcs Services) (Summary, error) {
	var sum Summary

	if fx.Teacher.Email != "" {
		if _, err := svcs.UserSvc.GetOrCreate(ctx, fx.Teacher.Email, fx.Teacher.Name, ""); err != nil {
			return sum, errors.Wrap(err, "creating teacher account")
		}
	}

	for i := range fx.Subjects {
		ns := fx.Subjects[i]
		if err := ns.Validate(ctx, svcs.Validate, svcs.SubjectSvc); err != nil {
			return sum, errors.Wrapf(err, "subjects[%d]", i)
		}
		if _, err := svcs.SubjectSvc.Create(ctx, ns); err != nil {
			return sum, err
		}
		sum.Subjects++
	}

	for i, row := range fx.Students {
		ns := row.NewStudent
		if err := ns.Validate(svcs.Validate); err != nil {
			return sum, errors.Wrapf(err, "students[%d]", i)
		}
		s, err := svcs.StudentSvc.Create(ctx, ns)
		if err != nil {
			return sum, err
		}
		sum.Students++

		if row.Attendance != (grading.Attendance{}) {
			if _, err = svcs.StudentSvc.SetAttendance(ctx, s.ID, row.Attendance); err != nil {
				return sum, errors.Wrapf(err, "students[%d].attendance", i)
			}
		}

		for j, sc := range row.Scores {
			entry := student.ScoreEntry{
				Subject:              sc.Subject,
				Term:                 fx.Term,
				ContinuousAssessment: sc.CA,
				Examination:          sc.Examination,
				Notes:                sc.Notes,
			}
			if err = entry.Validate(svcs.Validate); err != nil {
				return sum, errors.Wrapf(err, "students[%d].scores[%d]", i, j)
			}
			if _, err = svcs.StudentSvc.RecordScore(ctx, s.ID, entry); err != nil {
				return sum, errors.Wrapf(err, "students[%d].scores[%d]", i, j)
			}
			sum.Scores++
		}
	}
	return sum, nil
}
