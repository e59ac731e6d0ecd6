package student

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/grading"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// OrderingFields lists the fields students can be ordered by.
	OrderingFields = []string{"name", "class", "average", "attendance", "created_at"}
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// FilterStudents applies QueryFilter.Matches then QueryFilter.Orderings (by name by default).
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// ModifyStudent applies fn to the stored student and saves the result atomically.
		// The student is left unchanged when fn fails.
		ModifyStudent(ctx context.Context, id string, fn func(s *Student) error) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	// ActivityRecorder feeds the dashboard's recent activity.
	ActivityRecorder interface {
		Record(ctx context.Context, typ activity.Type, action, target string) error
	}

	Service struct {
		repo        Repository
		activities  ActivityRecorder
		defaultTerm string
		now         func() time.Time
	}
)

func NewService(repo Repository, activities ActivityRecorder, conf *core.Config) *Service {
	return &Service{
		repo:        repo,
		activities:  activities,
		defaultTerm: conf.CurrentTerm,
		now:         time.Now,
	}
}

// Term returns term, or the current term when empty.
func (svc *Service) Term(term string) string {
	if t := core.CleanString(term); t != "" {
		return t
	}
	return svc.defaultTerm
}

func (svc *Service) record(ctx context.Context, typ activity.Type, action, target string) error {
	if svc.activities == nil {
		return nil
	}
	return svc.activities.Record(ctx, typ, action, target)
}

// Create stores a validated NewStudent. New students start without scores or attendance.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := svc.now().UTC()
	s, err := svc.repo.CreateStudent(ctx, Student{
		Name:        ns.Name,
		Class:       ns.Class,
		ParentName:  ns.ParentName,
		ParentEmail: ns.ParentEmail,
		ParentPhone: ns.ParentPhone,
		DateOfBirth: ns.DateOfBirth,
		Address:     ns.Address,
		Scores:      []SubjectScore{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	if err = svc.record(ctx, activity.TypeStudent, "Added new student", s.Name); err != nil {
		return Student{}, err
	}
	return s, nil
}

// Import creates every row of a roster in class. Rows must have been checked with ValidateRoster.
func (svc *Service) Import(ctx context.Context, class string, rows []NewStudent) ([]Student, error) {
	created := make([]Student, 0, len(rows))
	for i, ns := range rows {
		if class != "" {
			ns.Class = class
		}
		s, err := svc.Create(ctx, ns)
		if err != nil {
			return created, errors.Wrapf(err, "importing row %d", i+1)
		}
		created = append(created, s)
	}
	return created, nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, QueryFilter{})
}

// Count returns the number of students in class (all students when class is empty).
func (svc *Service) Count(ctx context.Context, class string) (int, error) {
	students, err := svc.Filter(ctx, QueryFilter{Class: class})
	if err != nil {
		return 0, err
	}
	return len(students), nil
}

// Classes lists the distinct classes, sorted.
func (svc *Service) Classes(ctx context.Context) ([]string, error) {
	students, err := svc.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, s := range students {
		if !seen[s.Class] {
			seen[s.Class] = true
			classes = append(classes, s.Class)
		}
	}
	sort.Strings(classes)
	return classes, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	s.Name = us.Name
	s.Class = us.Class
	s.ParentName = us.ParentName
	s.ParentEmail = us.ParentEmail
	s.ParentPhone = us.ParentPhone
	s.DateOfBirth = us.DateOfBirth
	s.Address = us.Address
	s.UpdatedAt = svc.now().UTC()
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteStudentsByID(ctx, id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return svc.record(ctx, activity.TypeStudent, "Removed student", s.Name)
}

// RecordScore validates the entry's marks and sets the student's score for (subject, term).
func (svc *Service) RecordScore(ctx context.Context, id string, entry ScoreEntry) (Student, error) {
	score, err := grading.ComputeSubjectResult(entry.ContinuousAssessment, entry.Examination)
	if err != nil {
		return Student{}, err
	}
	s, err := svc.repo.ModifyStudent(ctx, id, func(s *Student) error {
		s.setScore(SubjectScore{
			Subject: entry.Subject,
			Term:    svc.Term(entry.Term),
			Score:   score,
			Notes:   entry.Notes,
		})
		s.UpdatedAt = svc.now().UTC()
		return nil
	})
	if err != nil {
		return Student{}, err
	}

	action := fmt.Sprintf("Updated %s scores", entry.Subject)
	if err = svc.record(ctx, activity.TypeScore, action, s.Name); err != nil {
		return Student{}, err
	}
	return s, nil
}

// MarkAttendance records one session for the student.
func (svc *Service) MarkAttendance(ctx context.Context, id string, present bool) (Student, error) {
	s, err := svc.repo.ModifyStudent(ctx, id, func(s *Student) error {
		s.Attendance.Mark(present)
		s.UpdatedAt = svc.now().UTC()
		return nil
	})
	if err != nil {
		return Student{}, err
	}

	action := "Marked absent"
	if present {
		action = "Marked present"
	}
	if err = svc.record(ctx, activity.TypeAttendance, action, s.Name); err != nil {
		return Student{}, err
	}
	return s, nil
}

// SetAttendance overwrites the attendance counters.
func (svc *Service) SetAttendance(ctx context.Context, id string, att grading.Attendance) (Student, error) {
	if err := att.Validate(); err != nil {
		return Student{}, err
	}
	return svc.repo.ModifyStudent(ctx, id, func(s *Student) error {
		s.Attendance = att
		s.UpdatedAt = svc.now().UTC()
		return nil
	})
}

// MarkAllPresent records a session where every student of class is present.
// It returns the number of students marked.
func (svc *Service) MarkAllPresent(ctx context.Context, class string) (int, error) {
	students, err := svc.Filter(ctx, QueryFilter{Class: class})
	if err != nil {
		return 0, err
	}
	now := svc.now().UTC()
	for _, s := range students {
		_, err = svc.repo.ModifyStudent(ctx, s.ID, func(s *Student) error {
			s.Attendance.Mark(true)
			s.UpdatedAt = now
			return nil
		})
		if err != nil {
			return 0, errors.Wrap(err, "saving attendance")
		}
	}
	if len(students) > 0 {
		if err = svc.record(ctx, activity.TypeAttendance, "Marked all present", strings.TrimSpace(class)); err != nil {
			return 0, err
		}
	}
	return len(students), nil
}

// Profile returns the student's academic profile for term, ranked within their class.
func (svc *Service) Profile(ctx context.Context, id, term string) (AcademicProfile, error) {
	s, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return AcademicProfile{}, err
	}
	profiles, err := svc.ClassProfiles(ctx, s.Class, term)
	if err != nil {
		return AcademicProfile{}, err
	}
	for _, p := range profiles {
		if p.StudentID == id {
			return p, nil
		}
	}
	return AcademicProfile{}, ErrNotFound
}

// ClassProfiles returns the academic profiles of class for term in rank order.
func (svc *Service) ClassProfiles(ctx context.Context, class, term string) ([]AcademicProfile, error) {
	term = svc.Term(term)
	students, err := svc.Filter(ctx, QueryFilter{
		Class:     class,
		Orderings: []core.Ordering{{Field: "created_at", Ascending: true}},
	})
	if err != nil {
		return nil, err
	}

	gps := make([]grading.Profile, len(students))
	for i, s := range students {
		gps[i] = s.GradingProfile(term)
	}
	ranks := grading.ComputeClassRank(gps)

	profiles := make([]AcademicProfile, 0, len(students))
	for _, idx := range grading.RankOrder(gps) {
		s := students[idx]
		profiles = append(profiles, newAcademicProfile(s, term, ranks[s.ID]))
	}
	return profiles, nil
}

// SortStudents sorts in place following ords; ties fall back to name.
func SortStudents(students []Student, ords []core.Ordering) {
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ords {
			c := compare(students[i], students[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
}

func compare(a, b Student, field string) int {
	switch field {
	case "name":
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "class":
		return cmp.Compare(strings.ToLower(a.Class), strings.ToLower(b.Class))
	case "average":
		x, _ := a.AverageScore()
		y, _ := b.AverageScore()
		return cmp.Compare(x, y)
	case "attendance":
		x, _ := a.Attendance.Percentage()
		y, _ := b.Attendance.Percentage()
		return cmp.Compare(x, y)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}
