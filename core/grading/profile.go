package grading

import (
	"errors"
	"sort"
)

// Profile is a student's academic record as far as grading is concerned.
type Profile struct {
	StudentID  string     `json:"student_id"`
	Name       string     `json:"name"`
	Class      string     `json:"class"`
	Scores     []Score    `json:"scores"`
	Attendance Attendance `json:"attendance"`
}

func (p Profile) OverallAverage() (int, error) { return ComputeOverallAverage(p.Scores) }

func (p Profile) OverallGrade() (Grade, error) {
	avg, err := p.OverallAverage()
	if err != nil {
		return "", err
	}
	return GradeFor(avg), nil
}

// rankingAverage is 0 for profiles without scores so they sort last.
func (p Profile) rankingAverage() int {
	avg, err := p.OverallAverage()
	if err != nil {
		return 0
	}
	return avg
}

// Rank is a 1-based position within TotalStudents.
type Rank struct {
	Position      int `json:"position"`
	TotalStudents int `json:"total_students"`
}

// ComputeClassRank orders profiles by overall average, best first. Ties keep
// their input order. The result is keyed by StudentID; a repeated StudentID
// keeps its best position and is counted once in TotalStudents.
func ComputeClassRank(profiles []Profile) map[string]Rank {
	order := RankOrder(profiles)
	ranks := make(map[string]Rank, len(order))
	for _, idx := range order {
		id := profiles[idx].StudentID
		if _, ok := ranks[id]; !ok {
			ranks[id] = Rank{Position: len(ranks) + 1}
		}
	}
	for id, r := range ranks {
		r.TotalStudents = len(ranks)
		ranks[id] = r
	}
	return ranks
}

// RankOrder returns the indexes of profiles in rank order.
func RankOrder(profiles []Profile) []int {
	avgs := make([]int, len(profiles))
	order := make([]int, len(profiles))
	for i, p := range profiles {
		avgs[i] = p.rankingAverage()
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return avgs[order[i]] > avgs[order[j]] })
	return order
}

// ClassAggregate summarises a class.
type ClassAggregate struct {
	Class          string       `json:"class"`
	Students       int          `json:"students"`
	Graded         int          `json:"graded"`
	Distribution   Distribution `json:"distribution"`
	Average        int          `json:"average"`
	AttendanceRate float64      `json:"attendance_rate"`
}

// ComputeClassAggregate builds the ClassAggregate of profiles. The distribution
// counts each graded student's overall grade and the average is the mean of
// their overall averages. The attendance rate is the mean percentage of the
// students with at least one recorded session.
func ComputeClassAggregate(class string, profiles []Profile) (ClassAggregate, error) {
	agg := ClassAggregate{
		Class:        class,
		Students:     len(profiles),
		Distribution: NewDistribution(),
	}

	var sum int
	records := make([]Attendance, 0, len(profiles))
	for _, p := range profiles {
		records = append(records, p.Attendance)

		avg, err := p.OverallAverage()
		if err != nil {
			continue
		}
		agg.Graded++
		agg.Distribution[GradeFor(avg)]++
		sum += avg
	}
	if agg.Graded == 0 {
		return ClassAggregate{}, &EmptyInputError{Op: "class aggregate"}
	}
	agg.Average = RoundedMean(sum, agg.Graded)

	rate, err := ComputeAttendanceRate(records)
	if err != nil && !errors.Is(err, ErrEmptyInput) {
		return ClassAggregate{}, err
	}
	agg.AttendanceRate = rate
	return agg, nil
}
