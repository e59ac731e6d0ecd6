package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/grading"
)

// gradingApi exposes the stateless calculators used by the score and attendance forms.
type gradingApi struct{}

func registerGradingAPI(g *echo.Group, jwt echo.MiddlewareFunc, _ *Server) {
	api := gradingApi{}

	gg := g.Group("/grading", jwt)
	gg.POST("/subject-result", api.subjectResult)
	gg.POST("/overall-average", api.overallAverage)
	gg.POST("/attendance", api.attendance)
}

type (
	ScoresRequest struct {
		Scores []grading.Score `json:"scores"`
	}

	OverallAverageResponse struct {
		Average      int                  `json:"average"`
		Grade        grading.Grade        `json:"grade"`
		Distribution grading.Distribution `json:"distribution"`
	}

	AttendanceResponse struct {
		grading.Attendance
		Percentage float64                  `json:"percentage"`
		Status     grading.AttendanceStatus `json:"status"`
	}
)

// Handlers

func (api *gradingApi) subjectResult(ctx echo.Context) error {
	var data grading.Score
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Score")
	}
	score, err := grading.ComputeSubjectResult(data.ContinuousAssessment, data.Examination)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, score)
}

func (api *gradingApi) overallAverage(ctx echo.Context) error {
	var data ScoresRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoresRequest")
	}
	for i, s := range data.Scores {
		if err := s.Validate(); err != nil {
			var rangeErr *grading.OutOfRangeError
			if errors.As(err, &rangeErr) {
				rangeErr.Field = fmt.Sprintf("scores[%d].%s", i, rangeErr.Field)
			}
			return err
		}
	}

	avg, err := grading.ComputeOverallAverage(data.Scores)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, OverallAverageResponse{
		Average:      avg,
		Grade:        grading.GradeFor(avg),
		Distribution: grading.ComputeGradeDistribution(data.Scores),
	})
}

func (api *gradingApi) attendance(ctx echo.Context) error {
	var data grading.Attendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Attendance")
	}
	pct, err := grading.ComputeAttendancePercentage(data.DaysPresent, data.TotalDays)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, AttendanceResponse{
		Attendance: data,
		Percentage: pct,
		Status:     grading.StatusFor(pct),
	})
}
