// Package spreadsheet reads and writes .xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
)

const (
	reportSheet  = "Report Card"
	rankingSheet = "Ranking"
)

type Exporter struct{}

var _ report.Exporter = (*Exporter)(nil)

func NewExporter() *Exporter {
	return &Exporter{}
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	bold  int
	title int
	err   error
}

func newSheetWriter(sheet string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: sheet, bold: bold, title: title}, nil
}

// line writes values on the next row, optionally styling the whole row.
func (sw *sheetWriter) line(style int, values ...interface{}) {
	sw.row++
	if sw.err != nil || len(values) == 0 {
		return
	}
	start, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		sw.err = err
		return
	}
	if sw.err = sw.f.SetSheetRow(sw.sheet, start, &values); sw.err != nil {
		return
	}
	if style > 0 {
		end, _ := excelize.CoordinatesToCellName(len(values), sw.row)
		sw.err = sw.f.SetCellStyle(sw.sheet, start, end, style)
	}
}

func (sw *sheetWriter) finish(w io.Writer, widths ...float64) error {
	defer sw.f.Close()
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if sw.err == nil {
			sw.err = sw.f.SetColWidth(sw.sheet, col, col, width)
		}
	}
	if sw.err != nil {
		return sw.err
	}
	return sw.f.Write(w)
}

func (e *Exporter) ExportReportCard(w io.Writer, card report.ReportCard) error {
	sw, err := newSheetWriter(reportSheet)
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}

	sw.line(sw.title, "Student Report Card")
	sw.line(0)
	sw.line(0, "Student", card.Student)
	sw.line(0, "Class", card.Class)
	sw.line(0, "Term", card.Term)
	sw.line(0)
	sw.line(sw.bold, "Subject", "CA (40)", "Exam (60)", "Total (100)", "Grade", "Notes")
	for _, l := range card.Subjects {
		sw.line(0, l.Subject, l.Score.ContinuousAssessment, l.Score.Examination, l.Score.Total(), string(l.Score.Grade()), l.Notes)
	}
	sw.line(0)
	sw.line(0, "Overall average", card.OverallAverage)
	sw.line(0, "Overall grade", string(card.OverallGrade))
	sw.line(0, "Position", fmt.Sprintf("%d of %d", card.Position, card.TotalStudents))
	sw.line(0, "Attendance", fmt.Sprintf("%d/%d days (%.1f%%)", card.Attendance.DaysPresent, card.Attendance.TotalDays, card.Attendance.Percentage))
	sw.line(0, "Teacher's remarks", card.TeacherRemarks)

	return errors.Wrap(sw.finish(w, 22, 10, 10, 12, 8, 40), "writing report card")
}

func (e *Exporter) ExportClassRanking(w io.Writer, class, term string, profiles []student.AcademicProfile) error {
	sw, err := newSheetWriter(rankingSheet)
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}

	sw.line(sw.title, fmt.Sprintf("%s: %s", class, term))
	sw.line(0)
	sw.line(sw.bold, "Position", "Student", "Average", "Grade", "Attendance (%)", "Status")
	for _, p := range profiles {
		var avg, pct interface{} = "-", "-"
		if p.OverallAverage != nil {
			avg = *p.OverallAverage
		}
		if p.AttendancePercentage != nil {
			pct = *p.AttendancePercentage
		}
		sw.line(0, p.Rank.Position, p.Name, avg, string(p.OverallGrade), pct, string(p.AttendanceStatus))
	}

	return errors.Wrap(sw.finish(w, 10, 24, 10, 8, 16, 16), "writing class ranking")
}

// rosterColumns maps accepted header labels to NewStudent fields.
var rosterColumns = map[string]func(ns *student.NewStudent, v string){
	"name":          func(ns *student.NewStudent, v string) { ns.Name = v },
	"student":       func(ns *student.NewStudent, v string) { ns.Name = v },
	"class":         func(ns *student.NewStudent, v string) { ns.Class = v },
	"parent name":   func(ns *student.NewStudent, v string) { ns.ParentName = v },
	"parent email":  func(ns *student.NewStudent, v string) { ns.ParentEmail = v },
	"parent phone":  func(ns *student.NewStudent, v string) { ns.ParentPhone = v },
	"date of birth": func(ns *student.NewStudent, v string) { ns.DateOfBirth = v },
	"address":       func(ns *student.NewStudent, v string) { ns.Address = v },
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", " ", "-", " ").Replace(h)
}

// ReadRoster reads students from the first sheet of a workbook. The first row holds the
// column labels (name, class, parent name, parent email, parent phone, date of birth, address);
// unknown columns and blank rows are skipped.
func ReadRoster(r io.Reader) ([]student.NewStudent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return []student.NewStudent{}, nil
	}

	setters := make([]func(*student.NewStudent, string), len(rows[0]))
	var hasName bool
	for i, h := range rows[0] {
		key := headerKey(h)
		setters[i] = rosterColumns[key]
		hasName = hasName || key == "name" || key == "student"
	}
	if !hasName {
		return nil, errors.New("roster has no name column")
	}

	roster := make([]student.NewStudent, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var ns student.NewStudent
		var blank = true
		for i, cell := range row {
			if i >= len(setters) || setters[i] == nil {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				blank = false
			}
			setters[i](&ns, cell)
		}
		if !blank {
			roster = append(roster, ns)
		}
	}
	return roster, nil
}

// WriteRoster writes students in the layout ReadRoster expects.
func WriteRoster(w io.Writer, students []student.NewStudent) error {
	sw, err := newSheetWriter("Roster")
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}
	sw.line(sw.bold, "Name", "Class", "Parent Name", "Parent Email", "Parent Phone", "Date of Birth", "Address")
	for _, s := range students {
		sw.line(0, s.Name, s.Class, s.ParentName, s.ParentEmail, s.ParentPhone, s.DateOfBirth, s.Address)
	}
	return errors.Wrap(sw.finish(w, 22, 12, 22, 26, 16, 14, 28), "writing roster")
}
