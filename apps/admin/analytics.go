package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/report"
)

func (cli *commandLine) analytics(ctx context.Context, term string) error {
	res, err := cli.reports.Analytics(ctx, term)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, cli.renderAnalytics(res))
	return nil
}

func (cli *commandLine) renderAnalytics(res report.Analytics) string {
	p := cli.printer()

	dist := make([]string, 0, len(grading.Grades))
	for _, g := range grading.Grades {
		dist = append(dist, fmt.Sprintf("%s: %d", p.grade(g), res.GradeDistribution[g]))
	}

	classes := p.table("Class", "Students", "Graded", "Average", "Grade", "Attendance")
	for _, agg := range res.ClassComparison {
		classes.Row(
			agg.Class,
			strconv.Itoa(agg.Students),
			strconv.Itoa(agg.Graded),
			strconv.Itoa(agg.Average),
			p.grade(grading.GradeFor(agg.Average)),
			percent(agg.AttendanceRate),
		)
	}

	top := p.table("#", "Student", "Class", "Average", "Grade")
	for i, tp := range res.TopPerformers {
		top.Row(strconv.Itoa(i+1), tp.Name, tp.Class, strconv.Itoa(tp.Average), p.grade(tp.Grade))
	}

	return p.box(lipgloss.JoinVertical(lipgloss.Left,
		p.title("School Analytics: "+res.Term),
		"",
		p.label("Students")+fmt.Sprintf("%d (%d graded)", res.TotalStudents, res.GradedStudents),
		p.label("Attendance rate")+percent(res.AttendanceRate),
		p.label("Grades")+strings.Join(dist, "  "),
		"",
		p.title("Class Comparison"),
		classes.Render(),
		"",
		p.title("Top Performers"),
		top.Render(),
	))
}
