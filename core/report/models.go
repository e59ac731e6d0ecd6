package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/trezcool/edutracker/core/activity"
	"github.com/trezcool/edutracker/core/grading"
)

type SubjectLine struct {
	Subject string        `json:"subject"`
	Score   grading.Score `json:"score"`
	Notes   string        `json:"notes,omitempty"`
}

type AttendanceSummary struct {
	DaysPresent int                      `json:"days_present"`
	TotalDays   int                      `json:"total_days"`
	Percentage  float64                  `json:"percentage"`
	Status      grading.AttendanceStatus `json:"status"`
}

// ReportCard is a student's end-of-term report.
type ReportCard struct {
	StudentID      string            `json:"student_id"`
	Student        string            `json:"student"`
	Class          string            `json:"class"`
	Term           string            `json:"term"`
	ParentName     string            `json:"parent_name"`
	ParentEmail    string            `json:"parent_email"`
	Subjects       []SubjectLine     `json:"subjects"`
	Attendance     AttendanceSummary `json:"attendance"`
	OverallAverage int               `json:"overall_average"`
	OverallGrade   grading.Grade     `json:"overall_grade"`
	Position       int               `json:"position"`
	TotalStudents  int               `json:"total_students"`
	TeacherRemarks string            `json:"teacher_remarks"`
	GeneratedAt    time.Time         `json:"generated_at"` // UTC
}

// Filename is the name used for the card's spreadsheet export.
func (c ReportCard) Filename() string {
	return fmt.Sprintf("report-card-%s-%s.xlsx", slugify(c.Student), slugify(c.Term))
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var defaultRemarks = map[grading.Grade]string{
	grading.GradeA: "Excellent performance. Keep it up!",
	grading.GradeB: "Very good work this term.",
	grading.GradeC: "Good effort, with room for improvement.",
	grading.GradeD: "Fair performance. More effort is needed.",
	grading.GradeF: "Needs significant improvement and extra support.",
}

type SubjectPerformance struct {
	Subject      string               `json:"subject"`
	Average      int                  `json:"average"`
	Students     int                  `json:"students"`
	Distribution grading.Distribution `json:"distribution"`
}

type TopPerformer struct {
	StudentID string        `json:"student_id"`
	Name      string        `json:"name"`
	Class     string        `json:"class"`
	Average   int           `json:"average"`
	Grade     grading.Grade `json:"grade"`
	Subjects  int           `json:"subjects"`
}

// Analytics is the school-wide picture of a term.
type Analytics struct {
	Term               string                   `json:"term"`
	TotalStudents      int                      `json:"total_students"`
	GradedStudents     int                      `json:"graded_students"`
	SubjectPerformance []SubjectPerformance     `json:"subject_performance"`
	GradeDistribution  grading.Distribution     `json:"grade_distribution"`
	ClassComparison    []grading.ClassAggregate `json:"class_comparison"`
	TopPerformers      []TopPerformer           `json:"top_performers"`
	AttendanceRate     float64                  `json:"attendance_rate"`
}

type RecentActivity struct {
	activity.Activity
	TimeAgo string `json:"time_ago"`
}

type Dashboard struct {
	TotalStudents    int              `json:"total_students"`
	ActiveSubjects   int              `json:"active_subjects"`
	AttendanceRate   float64          `json:"attendance_rate"`
	ReportsGenerated int64            `json:"reports_generated"`
	RecentActivity   []RecentActivity `json:"recent_activity"`
}
