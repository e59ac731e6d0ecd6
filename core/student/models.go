package student

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/grading"
)

type Student struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Class       string             `json:"class"`
	ParentName  string             `json:"parent_name"`
	ParentEmail string             `json:"parent_email"`
	ParentPhone string             `json:"parent_phone"`
	DateOfBirth string             `json:"date_of_birth"`
	Address     string             `json:"address"`
	Scores      []SubjectScore     `json:"scores"`
	Attendance  grading.Attendance `json:"attendance"`
	CreatedAt   time.Time          `json:"created_at"` // UTC
	UpdatedAt   time.Time          `json:"updated_at"` // UTC
}

// SubjectScore is a student's result in one subject for one term.
type SubjectScore struct {
	Subject string        `json:"subject"`
	Term    string        `json:"term"`
	Score   grading.Score `json:"score"`
	Notes   string        `json:"notes,omitempty"`
}

// ScoresFor returns the scores of term, or every score when term is empty.
func (s Student) ScoresFor(term string) []SubjectScore {
	scores := make([]SubjectScore, 0, len(s.Scores))
	for _, sc := range s.Scores {
		if term == "" || sc.Term == term {
			scores = append(scores, sc)
		}
	}
	return scores
}

// GradingScores is ScoresFor stripped down to the raw grading inputs.
func (s Student) GradingScores(term string) []grading.Score {
	scores := make([]grading.Score, 0, len(s.Scores))
	for _, sc := range s.ScoresFor(term) {
		scores = append(scores, sc.Score)
	}
	return scores
}

func (s Student) GradingProfile(term string) grading.Profile {
	return grading.Profile{
		StudentID:  s.ID,
		Name:       s.Name,
		Class:      s.Class,
		Scores:     s.GradingScores(term),
		Attendance: s.Attendance,
	}
}

// AverageScore is the overall average across all terms; ok is false without scores.
func (s Student) AverageScore() (avg int, ok bool) {
	avg, err := grading.ComputeOverallAverage(s.GradingScores(""))
	return avg, err == nil
}

// setScore inserts or replaces the score for (subject, term).
func (s *Student) setScore(sc SubjectScore) {
	for i := range s.Scores {
		if core.SameText(s.Scores[i].Subject, sc.Subject) && s.Scores[i].Term == sc.Term {
			s.Scores[i] = sc
			return
		}
	}
	s.Scores = append(s.Scores, sc)
}

func (s Student) MarshalJSON() ([]byte, error) {
	type student Student // drops the method set
	out := struct {
		student
		AverageScore         *int     `json:"average_score"`
		AttendancePercentage *float64 `json:"attendance_percentage"`
	}{student: student(s)}
	if out.Scores == nil {
		out.Scores = []SubjectScore{}
	}
	if avg, ok := s.AverageScore(); ok {
		out.AverageScore = &avg
	}
	if pct, err := s.Attendance.Percentage(); err == nil {
		out.AttendancePercentage = &pct
	}
	return json.Marshal(out)
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name        string `json:"name" yaml:"name" validate:"required,notblank,max=100"`
	Class       string `json:"class" yaml:"class" validate:"required,notblank,max=50"`
	ParentName  string `json:"parent_name" yaml:"parent_name" validate:"required,notblank,max=100"`
	ParentEmail string `json:"parent_email" yaml:"parent_email" validate:"omitempty,email"`
	ParentPhone string `json:"parent_phone" yaml:"parent_phone" validate:"omitempty,phone"`
	DateOfBirth string `json:"date_of_birth" yaml:"date_of_birth" validate:"omitempty,pastdate"`
	Address     string `json:"address" yaml:"address" validate:"max=200"`
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Class = core.CleanString(ns.Class)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.DateOfBirth = core.CleanString(ns.DateOfBirth)
	ns.Address = core.CleanString(ns.Address)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.clean()
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name        string `json:"name" validate:"max=100"`
	Class       string `json:"class" validate:"max=50"`
	ParentName  string `json:"parent_name" validate:"max=100"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
	ParentPhone string `json:"parent_phone" validate:"omitempty,phone"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,pastdate"`
	Address     string `json:"address" validate:"max=200"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student) error {
	keep := func(val, origVal string, lower ...bool) string {
		if v := core.CleanString(val, lower...); v != "" {
			return v
		}
		return origVal
	}
	us.Name = keep(us.Name, orig.Name)
	us.Class = keep(us.Class, orig.Class)
	us.ParentName = keep(us.ParentName, orig.ParentName)
	us.ParentEmail = keep(us.ParentEmail, orig.ParentEmail, true /* lower */)
	us.ParentPhone = keep(us.ParentPhone, orig.ParentPhone)
	us.DateOfBirth = keep(us.DateOfBirth, orig.DateOfBirth)
	us.Address = keep(us.Address, orig.Address)
	return validate.Struct(us)
}

// ScoreEntry is one subject's raw marks as typed by a teacher.
type ScoreEntry struct {
	Subject              string `json:"subject" validate:"required,notblank,max=100"`
	Term                 string `json:"term" validate:"max=50"`
	ContinuousAssessment int    `json:"continuous_assessment"`
	Examination          int    `json:"examination"`
	Notes                string `json:"notes" validate:"max=500"`
}

func (se *ScoreEntry) Validate(validate *validator.Validate) error {
	se.Subject = core.CleanString(se.Subject)
	se.Term = core.CleanString(se.Term)
	se.Notes = core.CleanString(se.Notes)
	return validate.Struct(se)
}

type AttendanceMark struct {
	Present bool `json:"present"`
}

type QueryFilter struct {
	Search    string `query:"search"`
	Class     string `query:"class"`
	Orderings []core.Ordering
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Class = core.CleanString(qf.Class)
}

// Matches applies the AND of the filter's fields; Search is a case-insensitive name match.
func (qf QueryFilter) Matches(s Student) bool {
	if qf.Class != "" && !core.SameText(s.Class, qf.Class) {
		return false
	}
	return qf.Search == "" || core.ContainsText(s.Name, qf.Search)
}

// AcademicProfile is a student's term record with everything derived from it.
type AcademicProfile struct {
	StudentID            string                   `json:"student_id"`
	Name                 string                   `json:"name"`
	Class                string                   `json:"class"`
	Term                 string                   `json:"term"`
	Scores               []SubjectScore           `json:"scores"`
	Attendance           grading.Attendance       `json:"attendance"`
	AttendancePercentage *float64                 `json:"attendance_percentage"`
	AttendanceStatus     grading.AttendanceStatus `json:"attendance_status,omitempty"`
	OverallAverage       *int                     `json:"overall_average"`
	OverallGrade         grading.Grade            `json:"overall_grade,omitempty"`
	Rank                 grading.Rank             `json:"rank"`
}

func newAcademicProfile(s Student, term string, rank grading.Rank) AcademicProfile {
	p := AcademicProfile{
		StudentID:  s.ID,
		Name:       s.Name,
		Class:      s.Class,
		Term:       term,
		Scores:     s.ScoresFor(term),
		Attendance: s.Attendance,
		Rank:       rank,
	}
	if pct, err := s.Attendance.Percentage(); err == nil {
		p.AttendancePercentage = &pct
		p.AttendanceStatus = grading.StatusFor(pct)
	}
	if avg, err := grading.ComputeOverallAverage(s.GradingScores(term)); err == nil {
		p.OverallAverage = &avg
		p.OverallGrade = grading.GradeFor(avg)
	}
	return p
}
