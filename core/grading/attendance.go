package grading

import "math"

// Attendance aggregates per-session presence marks.
type Attendance struct {
	DaysPresent int `json:"days_present" yaml:"days_present"`
	TotalDays   int `json:"total_days" yaml:"total_days"`
}

// Mark records one session.
func (a *Attendance) Mark(present bool) {
	a.TotalDays++
	if present {
		a.DaysPresent++
	}
}

// Percentage is ComputeAttendancePercentage over the counters.
func (a Attendance) Percentage() (float64, error) {
	return ComputeAttendancePercentage(a.DaysPresent, a.TotalDays)
}

// Validate checks the counters are consistent.
func (a Attendance) Validate() error {
	if err := checkRange("total_days", a.TotalDays, 0, math.MaxInt); err != nil {
		return err
	}
	return checkRange("days_present", a.DaysPresent, 0, a.TotalDays)
}

// ComputeAttendancePercentage returns daysPresent/totalDays as a percentage
// rounded half up to one decimal place.
func ComputeAttendancePercentage(daysPresent, totalDays int) (float64, error) {
	if err := (Attendance{DaysPresent: daysPresent, TotalDays: totalDays}).Validate(); err != nil {
		return 0, err
	}
	if totalDays == 0 {
		return 0, &EmptyInputError{Op: "attendance percentage"}
	}
	return float64(percentTenths(daysPresent, totalDays)) / 10, nil
}

// ComputeAttendanceRate is the mean percentage of the records having at least one session.
func ComputeAttendanceRate(records []Attendance) (float64, error) {
	var tenths, n int
	for _, a := range records {
		if err := a.Validate(); err != nil {
			return 0, err
		}
		if a.TotalDays == 0 {
			continue
		}
		tenths += percentTenths(a.DaysPresent, a.TotalDays)
		n++
	}
	if n == 0 {
		return 0, &EmptyInputError{Op: "attendance rate"}
	}
	return float64(RoundedMean(tenths, n)) / 10, nil
}

// percentTenths works in integer tenths of a percent (85/90 -> 944).
func percentTenths(daysPresent, totalDays int) int {
	return RoundedMean(daysPresent*1000, totalDays)
}

// AttendanceStatus buckets a percentage for display.
type AttendanceStatus string

const (
	AttendanceExcellent      AttendanceStatus = "Excellent"
	AttendanceGood           AttendanceStatus = "Good"
	AttendanceNeedsAttention AttendanceStatus = "Needs Attention"
)

func StatusFor(percentage float64) AttendanceStatus {
	switch {
	case percentage >= 95:
		return AttendanceExcellent
	case percentage >= 85:
		return AttendanceGood
	default:
		return AttendanceNeedsAttention
	}
}
