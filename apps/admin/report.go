package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
)

// findStudent resolves name to one student: an exact (case-insensitive) match wins,
// otherwise the name must match a single student partially.
func (cli *commandLine) findStudent(ctx context.Context, name string) (student.Student, error) {
	students, err := cli.students.Filter(ctx, student.QueryFilter{Search: name})
	if err != nil {
		return student.Student{}, err
	}
	for _, s := range students {
		if core.SameText(s.Name, name) {
			return s, nil
		}
	}
	switch len(students) {
	case 0:
		return student.Student{}, student.ErrNotFound
	case 1:
		return students[0], nil
	}
	names := make([]string, 0, len(students))
	for _, s := range students {
		names = append(names, s.Name)
	}
	return student.Student{}, errors.Errorf("%q matches several students: %s", name, strings.Join(names, ", "))
}

func (cli *commandLine) report(ctx context.Context, name, term, remarks, outPath string) (err error) {
	s, err := cli.findStudent(ctx, name)
	if err != nil {
		return err
	}
	card, err := cli.reports.ReportCard(ctx, s.ID, term, remarks)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, cli.renderReportCard(card))

	if outPath == "" {
		return nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = cli.reports.Export(f, card); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Report card exported to %s\n", outPath)
	return nil
}

func (cli *commandLine) renderReportCard(card report.ReportCard) string {
	p := cli.printer()

	subjects := p.table("Subject", "CA (40)", "Exam (60)", "Total", "Grade", "Notes")
	for _, l := range card.Subjects {
		subjects.Row(
			l.Subject,
			strconv.Itoa(l.Score.ContinuousAssessment),
			strconv.Itoa(l.Score.Examination),
			strconv.Itoa(l.Score.Total()),
			p.grade(l.Score.Grade()),
			l.Notes,
		)
	}

	att := card.Attendance
	return p.box(lipgloss.JoinVertical(lipgloss.Left,
		p.title("Student Report Card"),
		"",
		p.label("Student")+card.Student,
		p.label("Class")+card.Class,
		p.label("Term")+card.Term,
		"",
		subjects.Render(),
		"",
		p.label("Overall average")+fmt.Sprintf("%d%%", card.OverallAverage),
		p.label("Overall grade")+p.grade(card.OverallGrade),
		p.label("Position")+fmt.Sprintf("%d of %d", card.Position, card.TotalStudents),
		p.label("Attendance")+fmt.Sprintf("%d/%d days (%s, %s)", att.DaysPresent, att.TotalDays, percent(att.Percentage), att.Status),
		"",
		p.label("Teacher's remarks"),
		p.wrap(card.TeacherRemarks, 4),
	))
}
