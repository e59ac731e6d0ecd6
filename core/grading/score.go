package grading

import "encoding/json"

const (
	MaxContinuousAssessment = 40
	MaxExamination          = 60
	MaxTotal                = MaxContinuousAssessment + MaxExamination
)

// Score is one subject's raw assessment. Total and Grade are always derived,
// so they cannot drift from the inputs.
type Score struct {
	ContinuousAssessment int
	Examination          int
}

func (s Score) Total() int   { return s.ContinuousAssessment + s.Examination }
func (s Score) Grade() Grade { return GradeFor(s.Total()) }

// Validate checks both components against their bounds.
func (s Score) Validate() error {
	if err := checkRange("continuous_assessment", s.ContinuousAssessment, 0, MaxContinuousAssessment); err != nil {
		return err
	}
	return checkRange("examination", s.Examination, 0, MaxExamination)
}

type scoreJSON struct {
	ContinuousAssessment int   `json:"continuous_assessment"`
	Examination          int   `json:"examination"`
	Total                int   `json:"total"`
	Grade                Grade `json:"grade"`
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(scoreJSON{
		ContinuousAssessment: s.ContinuousAssessment,
		Examination:          s.Examination,
		Total:                s.Total(),
		Grade:                s.Grade(),
	})
}

// UnmarshalJSON only reads the raw inputs; total and grade are ignored.
func (s *Score) UnmarshalJSON(data []byte) error {
	var in struct {
		ContinuousAssessment int `json:"continuous_assessment"`
		Examination          int `json:"examination"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ContinuousAssessment = in.ContinuousAssessment
	s.Examination = in.Examination
	return nil
}

// ComputeSubjectResult validates a CA/exam pair and returns the resulting Score.
func ComputeSubjectResult(ca, exam int) (Score, error) {
	s := Score{ContinuousAssessment: ca, Examination: exam}
	if err := s.Validate(); err != nil {
		return Score{}, err
	}
	return s, nil
}

// ComputeOverallAverage returns the mean of the scores' totals, rounded half up.
func ComputeOverallAverage(scores []Score) (int, error) {
	if len(scores) == 0 {
		return 0, &EmptyInputError{Op: "overall average"}
	}
	var sum int
	for _, s := range scores {
		sum += s.Total()
	}
	return RoundedMean(sum, len(scores)), nil
}

// RoundedMean returns sum/n rounded half up. sum must be non-negative and n positive.
func RoundedMean(sum, n int) int {
	return (2*sum + n) / (2 * n)
}

// Distribution counts occurrences per letter grade.
type Distribution map[Grade]int

// NewDistribution returns a Distribution with every letter set to zero.
func NewDistribution() Distribution {
	d := make(Distribution, len(Grades))
	for _, g := range Grades {
		d[g] = 0
	}
	return d
}

// Total is the number of tallied items.
func (d Distribution) Total() int {
	var n int
	for _, c := range d {
		n += c
	}
	return n
}

// ComputeGradeDistribution tallies the grade of every score. All five letters
// are present in the result.
func ComputeGradeDistribution(scores []Score) Distribution {
	d := NewDistribution()
	for _, s := range scores {
		d[s.Grade()]++
	}
	return d
}
