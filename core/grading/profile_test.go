package grading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAttendancePercentage(t *testing.T) {
	tests := []struct {
		name           string
		present, total int
		want           float64
		wantErr        error
	}{
		{name: "85 of 90", present: 85, total: 90, want: 94.4},
		{name: "all", present: 20, total: 20, want: 100},
		{name: "none", present: 0, total: 7, want: 0},
		{name: "half up", present: 1, total: 8, want: 12.5},
		{name: "2 of 3", present: 2, total: 3, want: 66.7},
		{name: "no sessions", present: 0, total: 0, wantErr: ErrEmptyInput},
		{name: "present above total", present: 5, total: 4, wantErr: ErrOutOfRange},
		{name: "negative present", present: -1, total: 4, wantErr: ErrOutOfRange},
		{name: "negative total", present: 0, total: -4, wantErr: ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAttendancePercentage(tt.present, tt.total)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got err %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttendance_Mark(t *testing.T) {
	var a Attendance
	for _, present := range []bool{true, true, false, true} {
		a.Mark(present)
	}
	assert.Equal(t, Attendance{DaysPresent: 3, TotalDays: 4}, a)

	pct, err := a.Percentage()
	require.NoError(t, err)
	assert.Equal(t, 75.0, pct)
	assert.Equal(t, AttendanceNeedsAttention, StatusFor(pct))
	assert.Equal(t, AttendanceGood, StatusFor(85))
	assert.Equal(t, AttendanceExcellent, StatusFor(95))
}

func profile(id string, ca, exam int, more ...Score) Profile {
	return Profile{StudentID: id, Scores: append([]Score{{ca, exam}}, more...)}
}

func TestComputeClassRank(t *testing.T) {
	profiles := []Profile{
		profile("carol", 30, 50),               // 80
		profile("alice", 35, 55),               // 90
		profile("bob", 30, 50),                 // 80, tied with carol
		{StudentID: "new"},                     // no scores
		profile("dave", 25, 35, Score{20, 30}), // 55
	}

	got := ComputeClassRank(profiles)
	want := map[string]Rank{
		"alice": {1, 5},
		"carol": {2, 5},
		"bob":   {3, 5},
		"dave":  {4, 5},
		"new":   {5, 5},
	}
	assert.Equal(t, want, got)

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, got, ComputeClassRank(profiles))
	})

	t.Run("tie order follows input order", func(t *testing.T) {
		swapped := []Profile{profiles[2], profiles[1], profiles[0]}
		ranks := ComputeClassRank(swapped)
		assert.Equal(t, 1, ranks["alice"].Position)
		assert.Equal(t, 2, ranks["bob"].Position)
		assert.Equal(t, 3, ranks["carol"].Position)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ComputeClassRank(nil))
	})

	t.Run("repeated id counted once", func(t *testing.T) {
		ranks := ComputeClassRank([]Profile{
			profile("bob", 30, 50),   // 80
			profile("alice", 35, 55), // 90
			profile("bob", 20, 30),   // 50
		})
		assert.Equal(t, map[string]Rank{"alice": {1, 2}, "bob": {2, 2}}, ranks)
	})
}

func TestComputeClassAggregate(t *testing.T) {
	profiles := []Profile{
		{StudentID: "1", Scores: []Score{{35, 55}, {38, 58}}, Attendance: Attendance{DaysPresent: 85, TotalDays: 90}}, // 93 A, 94.4
		{StudentID: "2", Scores: []Score{{28, 42}}, Attendance: Attendance{DaysPresent: 9, TotalDays: 10}},              // 70 C, 90.0
		{StudentID: "3", Scores: []Score{{20, 25}}},                                                                     // 45 F
		{StudentID: "4"},
	}

	got, err := ComputeClassAggregate("Class 5A", profiles)
	require.NoError(t, err)
	assert.Equal(t, "Class 5A", got.Class)
	assert.Equal(t, 4, got.Students)
	assert.Equal(t, 3, got.Graded)
	assert.Equal(t, Distribution{GradeA: 1, GradeB: 0, GradeC: 1, GradeD: 0, GradeF: 1}, got.Distribution)
	assert.Equal(t, 69, got.Average) // (93+70+45)/3 = 69.33
	assert.Equal(t, 92.2, got.AttendanceRate)

	t.Run("nobody graded", func(t *testing.T) {
		_, err := ComputeClassAggregate("Class 4A", []Profile{{StudentID: "x"}})
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})

	t.Run("inconsistent attendance", func(t *testing.T) {
		bad := []Profile{{StudentID: "x", Scores: []Score{{1, 1}}, Attendance: Attendance{DaysPresent: 3, TotalDays: 2}}}
		_, err := ComputeClassAggregate("Class 4A", bad)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
}

func TestComputeAttendanceRate(t *testing.T) {
	rate, err := ComputeAttendanceRate([]Attendance{
		{DaysPresent: 85, TotalDays: 90}, // 94.4
		{DaysPresent: 1, TotalDays: 2},   // 50.0
		{},                               // no session yet, ignored
	})
	require.NoError(t, err)
	assert.Equal(t, 72.2, rate)

	_, err = ComputeAttendanceRate([]Attendance{{}})
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = ComputeAttendanceRate([]Attendance{{DaysPresent: 4, TotalDays: 3}})
	assert.True(t, errors.Is(err, ErrOutOfRange))

	// present without any session is as inconsistent as it is for a single percentage
	_, err = ComputeAttendanceRate([]Attendance{{DaysPresent: 5}, {DaysPresent: 9, TotalDays: 10}})
	assert.True(t, errors.Is(err, ErrOutOfRange), "got err %v", err)
}
