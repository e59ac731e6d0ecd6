// Package grading turns raw assessment inputs into grades, averages and
// class-level aggregates. Everything here is pure and synchronous.
package grading

// Grade is a letter grade.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Grades lists every letter from best to worst.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeF}

// thresholds must stay sorted by min, descending.
var thresholds = []struct {
	min   int
	grade Grade
}{
	{90, GradeA},
	{80, GradeB},
	{70, GradeC},
	{60, GradeD},
}

// GradeFor maps a total (or an average) to its letter grade.
func GradeFor(total int) Grade {
	for _, th := range thresholds {
		if total >= th.min {
			return th.grade
		}
	}
	return GradeF
}

// Valid reports whether g is one of Grades.
func (g Grade) Valid() bool {
	for _, gr := range Grades {
		if g == gr {
			return true
		}
	}
	return false
}
