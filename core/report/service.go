package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/subject"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	topPerformersCount  = 5
	recentActivityCount = 10
)

var (
	// errors
	ErrNoParentEmail = errors.New("the student has no parent email")
)

type (
	// Exporter writes reports as files.
	Exporter interface {
		ExportReportCard(w io.Writer, card ReportCard) error
		ExportClassRanking(w io.Writer, class, term string, profiles []student.AcademicProfile) error
	}

	ActivityFeed interface {
		Record(ctx context.Context, typ activity.Type, action, target string) error
		Recent(ctx context.Context, n int) ([]activity.Activity, error)
	}

	Service struct {
		students   *student.Service
		subjects   *subject.Service
		activities ActivityFeed
		exporter   Exporter
		mailSvc    core.EmailService
		generated  int64 // atomic
		now        func() time.Time
	}
)

func NewService(
	students *student.Service,
	subjects *subject.Service,
	activities ActivityFeed,
	exporter Exporter,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		students:   students,
		subjects:   subjects,
		activities: activities,
		exporter:   exporter,
		mailSvc:    mailSvc,
		now:        time.Now,
	}
}

// ReportCard builds the report card of a student for term (current term when empty).
// Empty remarks are replaced by a comment matching the overall grade.
func (svc *Service) ReportCard(ctx context.Context, studentID, term, remarks string) (ReportCard, error) {
	s, err := svc.students.GetByID(ctx, studentID)
	if err != nil {
		return ReportCard{}, err
	}
	term = svc.students.Term(term)

	avg, err := grading.ComputeOverallAverage(s.GradingScores(term))
	if err != nil {
		return ReportCard{}, &grading.EmptyInputError{Op: fmt.Sprintf("report card for %s", term)}
	}

	profiles, err := svc.students.ClassProfiles(ctx, s.Class, term)
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "ranking class")
	}
	var rank grading.Rank
	for _, p := range profiles {
		if p.StudentID == s.ID {
			rank = p.Rank
			break
		}
	}

	card := ReportCard{
		StudentID:      s.ID,
		Student:        s.Name,
		Class:          s.Class,
		Term:           term,
		ParentName:     s.ParentName,
		ParentEmail:    s.ParentEmail,
		OverallAverage: avg,
		OverallGrade:   grading.GradeFor(avg),
		Position:       rank.Position,
		TotalStudents:  rank.TotalStudents,
		TeacherRemarks: core.CleanString(remarks),
		GeneratedAt:    svc.now().UTC(),
		Attendance: AttendanceSummary{
			DaysPresent: s.Attendance.DaysPresent,
			TotalDays:   s.Attendance.TotalDays,
		},
	}
	if pct, err := s.Attendance.Percentage(); err == nil {
		card.Attendance.Percentage = pct
	}
	card.Attendance.Status = grading.StatusFor(card.Attendance.Percentage)
	if card.TeacherRemarks == "" {
		card.TeacherRemarks = defaultRemarks[card.OverallGrade]
	}

	for _, sc := range s.ScoresFor(term) {
		card.Subjects = append(card.Subjects, SubjectLine{Subject: sc.Subject, Score: sc.Score, Notes: sc.Notes})
	}
	sort.SliceStable(card.Subjects, func(i, j int) bool { return card.Subjects[i].Subject < card.Subjects[j].Subject })

	atomic.AddInt64(&svc.generated, 1)
	if err = svc.activities.Record(ctx, activity.TypeReport, "Generated report card", s.Name); err != nil {
		return ReportCard{}, err
	}
	return card, nil
}

func (svc *Service) Export(w io.Writer, card ReportCard) error {
	return errors.Wrap(svc.exporter.ExportReportCard(w, card), "exporting report card")
}

// ExportClassRanking writes the ranked class sheet of term.
func (svc *Service) ExportClassRanking(ctx context.Context, w io.Writer, class, term string) error {
	term = svc.students.Term(term)
	profiles, err := svc.students.ClassProfiles(ctx, class, term)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return student.ErrNotFound
	}
	return errors.Wrap(svc.exporter.ExportClassRanking(w, class, term, profiles), "exporting class ranking")
}

// EmailReportCard sends the report card to the student's parent with the spreadsheet attached.
// Sending is asynchronous.
func (svc *Service) EmailReportCard(ctx context.Context, studentID, term, remarks string) (ReportCard, error) {
	card, err := svc.ReportCard(ctx, studentID, term, remarks)
	if err != nil {
		return ReportCard{}, err
	}
	if card.ParentEmail == "" {
		return ReportCard{}, core.NewFieldValidationError("parent_email", ErrNoParentEmail)
	}

	var buf bytes.Buffer
	if err = svc.Export(&buf, card); err != nil {
		return ReportCard{}, err
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: card.ParentName, Address: card.ParentEmail}},
		Subject:      fmt.Sprintf("%s report card: %s", card.Term, card.Student),
		TemplateName: "report_card",
		TemplateData: struct {
			ParentName string
			Card       ReportCard
		}{card.ParentName, card},
	}
	if err = msg.Attach(&buf, card.Filename(), XLSXContentType); err != nil {
		return ReportCard{}, errors.Wrap(err, "attaching report card")
	}
	svc.mailSvc.SendMessages(msg)

	if err = svc.activities.Record(ctx, activity.TypeReport, "Emailed report card", card.Student); err != nil {
		return ReportCard{}, err
	}
	return card, nil
}

// ClassAggregate summarises class for term.
func (svc *Service) ClassAggregate(ctx context.Context, class, term string) (grading.ClassAggregate, error) {
	profiles, err := svc.students.ClassProfiles(ctx, class, term)
	if err != nil {
		return grading.ClassAggregate{}, err
	}
	if len(profiles) == 0 {
		return grading.ClassAggregate{}, student.ErrNotFound
	}
	gps := make([]grading.Profile, 0, len(profiles))
	for _, p := range profiles {
		gps = append(gps, toGradingProfile(p))
	}
	return grading.ComputeClassAggregate(profiles[0].Class, gps)
}

func toGradingProfile(p student.AcademicProfile) grading.Profile {
	scores := make([]grading.Score, 0, len(p.Scores))
	for _, sc := range p.Scores {
		scores = append(scores, sc.Score)
	}
	return grading.Profile{
		StudentID:  p.StudentID,
		Name:       p.Name,
		Class:      p.Class,
		Scores:     scores,
		Attendance: p.Attendance,
	}
}

// Analytics computes the term's school-wide analytics.
func (svc *Service) Analytics(ctx context.Context, term string) (Analytics, error) {
	term = svc.students.Term(term)
	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return Analytics{}, err
	}

	res := Analytics{
		Term:               term,
		TotalStudents:      len(students),
		SubjectPerformance: []SubjectPerformance{},
		GradeDistribution:  grading.NewDistribution(),
		ClassComparison:    []grading.ClassAggregate{},
		TopPerformers:      []TopPerformer{},
	}

	type subjectTally struct {
		name   string
		sum    int
		scores []grading.Score
	}
	tallies := make(map[string]*subjectTally)
	byClass := make(map[string][]grading.Profile)
	var classes []string
	profiles := make([]grading.Profile, 0, len(students))
	records := make([]grading.Attendance, 0, len(students))

	for _, s := range students {
		p := s.GradingProfile(term)
		profiles = append(profiles, p)
		records = append(records, s.Attendance)
		if _, ok := byClass[s.Class]; !ok {
			classes = append(classes, s.Class)
		}
		byClass[s.Class] = append(byClass[s.Class], p)

		for _, sc := range s.ScoresFor(term) {
			key := strings.ToLower(core.CleanString(sc.Subject)) // same rule as core.SameText
			t, ok := tallies[key]
			if !ok {
				t = &subjectTally{name: sc.Subject}
				tallies[key] = t
			}
			t.sum += sc.Score.Total()
			t.scores = append(t.scores, sc.Score)
		}

		if avg, err := p.OverallAverage(); err == nil {
			res.GradedStudents++
			res.GradeDistribution[grading.GradeFor(avg)]++
		}
	}

	for _, t := range tallies {
		res.SubjectPerformance = append(res.SubjectPerformance, SubjectPerformance{
			Subject:      t.name,
			Average:      grading.RoundedMean(t.sum, len(t.scores)),
			Students:     len(t.scores),
			Distribution: grading.ComputeGradeDistribution(t.scores),
		})
	}
	sort.Slice(res.SubjectPerformance, func(i, j int) bool {
		return res.SubjectPerformance[i].Subject < res.SubjectPerformance[j].Subject
	})

	sort.Strings(classes)
	for _, class := range classes {
		agg, err := grading.ComputeClassAggregate(class, byClass[class])
		if errors.Is(err, grading.ErrEmptyInput) {
			continue
		}
		if err != nil {
			return Analytics{}, errors.Wrapf(err, "aggregating %s", class)
		}
		res.ClassComparison = append(res.ClassComparison, agg)
	}

	for _, idx := range grading.RankOrder(profiles) {
		p := profiles[idx]
		avg, err := p.OverallAverage()
		if err != nil || len(res.TopPerformers) == topPerformersCount {
			break // unscored profiles rank last
		}
		res.TopPerformers = append(res.TopPerformers, TopPerformer{
			StudentID: p.StudentID,
			Name:      p.Name,
			Class:     p.Class,
			Average:   avg,
			Grade:     grading.GradeFor(avg),
			Subjects:  len(p.Scores),
		})
	}

	if res.AttendanceRate, err = grading.ComputeAttendanceRate(records); err != nil && !errors.Is(err, grading.ErrEmptyInput) {
		return Analytics{}, err
	}
	return res, nil
}

// Dashboard returns the headline numbers and the latest activity.
func (svc *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	subjects, err := svc.subjects.Query(ctx, "")
	if err != nil {
		return Dashboard{}, err
	}
	acts, err := svc.activities.Recent(ctx, recentActivityCount)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying recent activity")
	}

	records := make([]grading.Attendance, 0, len(students))
	for _, s := range students {
		records = append(records, s.Attendance)
	}
	rate, err := grading.ComputeAttendanceRate(records)
	if err != nil && !errors.Is(err, grading.ErrEmptyInput) {
		return Dashboard{}, err
	}

	now := svc.now()
	recent := make([]RecentActivity, 0, len(acts))
	for _, act := range acts {
		recent = append(recent, RecentActivity{
			Activity: act,
			TimeAgo:  humanize.RelTime(act.At, now, "ago", "from now"),
		})
	}

	return Dashboard{
		TotalStudents:    len(students),
		ActiveSubjects:   len(subjects),
		AttendanceRate:   rate,
		ReportsGenerated: atomic.LoadInt64(&svc.generated),
		RecentActivity:   recent,
	}, nil
}
