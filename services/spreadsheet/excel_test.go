package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
)

func TestRosterRoundTrip(t *testing.T) {
	roster := []student.NewStudent{
		{Name: "Alice Johnson", Class: "Class 5A", ParentName: "Mary Johnson", ParentEmail: "mary@example.com", DateOfBirth: "2013-04-12"},
		{Name: "Bob Smith", Class: "Class 5A", ParentName: "John Smith", ParentPhone: "+1 555 0101", Address: "12 Oak Street"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, roster))

	got, err := ReadRoster(&buf)
	require.NoError(t, err)
	assert.Equal(t, roster, got)
}

func TestReadRoster(t *testing.T) {
	newWorkbook := func(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
		t.Helper()
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return &buf
	}

	t.Run("header aliases, unknown columns and blank rows", func(t *testing.T) {
		buf := newWorkbook(t,
			[]interface{}{"Student", "Favourite Colour", "parent_name", "CLASS"},
			[]interface{}{" Carol Brown ", "green", "Susan Brown", "Class 5B"},
			[]interface{}{"", "", "", ""},
			[]interface{}{"David Wilson", "", "Tom Wilson", ""},
		)
		got, err := ReadRoster(buf)
		require.NoError(t, err)
		assert.Equal(t, []student.NewStudent{
			{Name: "Carol Brown", ParentName: "Susan Brown", Class: "Class 5B"},
			{Name: "David Wilson", ParentName: "Tom Wilson"},
		}, got)
	})

	t.Run("empty sheet", func(t *testing.T) {
		got, err := ReadRoster(newWorkbook(t))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("no name column", func(t *testing.T) {
		_, err := ReadRoster(newWorkbook(t, []interface{}{"Class", "Address"}, []interface{}{"Class 4B", "somewhere"}))
		assert.EqualError(t, err, "roster has no name column")
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := ReadRoster(bytes.NewBufferString("name,class\nAlice,5A\n"))
		assert.Error(t, err)
	})
}

func TestExportReportCard(t *testing.T) {
	card := report.ReportCard{
		Student: "Alice Johnson",
		Class:   "Class 5A",
		Term:    "First Term 2024",
		Subjects: []report.SubjectLine{
			{Subject: "English", Score: grading.Score{ContinuousAssessment: 32, Examination: 50}, Notes: "Great essays"},
			{Subject: "Mathematics", Score: grading.Score{ContinuousAssessment: 35, Examination: 55}},
		},
		Attendance:     report.AttendanceSummary{DaysPresent: 45, TotalDays: 50, Percentage: 90, Status: grading.AttendanceGood},
		OverallAverage: 86,
		OverallGrade:   grading.GradeB,
		Position:       1,
		TotalStudents:  4,
		TeacherRemarks: "Very good work this term.",
		GeneratedAt:    time.Date(2024, 12, 13, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, NewExporter().ExportReportCard(&buf, card))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{reportSheet}, f.GetSheetList())
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)

	cells := func(rowIdx int) []string { return rows[rowIdx] }
	assert.Equal(t, []string{"Student Report Card"}, cells(0))
	assert.Equal(t, []string{"Student", "Alice Johnson"}, cells(2))
	assert.Equal(t, []string{"Subject", "CA (40)", "Exam (60)", "Total (100)", "Grade", "Notes"}, cells(6))
	assert.Equal(t, []string{"English", "32", "50", "82", "B", "Great essays"}, cells(7))
	assert.Equal(t, []string{"Mathematics", "35", "55", "90", "A"}, cells(8)[:5])
	assert.Equal(t, []string{"Overall average", "86"}, cells(10))
	assert.Equal(t, []string{"Position", "1 of 4"}, cells(12))
	assert.Equal(t, []string{"Attendance", "45/50 days (90.0%)"}, cells(13))
}

func TestExportClassRanking(t *testing.T) {
	avg, pct := 86, 90.0
	profiles := []student.AcademicProfile{
		{
			Name: "Alice Johnson", OverallAverage: &avg, OverallGrade: grading.GradeB,
			AttendancePercentage: &pct, AttendanceStatus: grading.AttendanceGood,
			Rank: grading.Rank{Position: 1, TotalStudents: 2},
		},
		{Name: "Bob Smith", Rank: grading.Rank{Position: 2, TotalStudents: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewExporter().ExportClassRanking(&buf, "Class 5A", "First Term 2024", profiles))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(rankingSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Class 5A: First Term 2024"}, rows[0])
	assert.Equal(t, []string{"1", "Alice Johnson", "86", "B", "90", "Good"}, rows[3])
	require.GreaterOrEqual(t, len(rows[4]), 5)
	assert.Equal(t, []string{"2", "Bob Smith", "-"}, rows[4][:3])
	assert.Equal(t, "-", rows[4][4])
}
