package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/grading"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/services/spreadsheet"
)

const maxRosterSize = 5 << 20 // 5MB

var errRosterFileRequired = errors.New("an .xlsx roster file is required")

type studentApi struct {
	svc        *student.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := studentApi{
		svc:        s.deps.StudentSvc,
		validate:   s.deps.Validate,
		translator: s.deps.Translator,
	}

	sg := g.Group("/students", jwt, ctxUserMiddleware(s.deps.UserSvc))
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/import", api.importRoster)

	// detail endpoints
	dg := sg.Group("/:id", studentMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/profile", api.profile)
	dg.PUT("/scores", api.recordScore)
	dg.POST("/attendance", api.markAttendance)
	dg.PUT("/attendance", api.setAttendance)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	var filter student.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Orderings = bindOrderings(ctx, student.OrderingFields...)

	students, err := api.svc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "filtering students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

// importRoster creates the students of an uploaded roster. Nothing is created unless every row is valid.
func (api *studentApi) importRoster(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewFieldValidationError("file", errRosterFileRequired)
	}
	if fh.Size > maxRosterSize {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "the roster must not exceed 5MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening roster")
	}
	defer f.Close()

	rows, err := spreadsheet.ReadRoster(f)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: err.Error()})
	}
	class := core.CleanString(ctx.FormValue("class"))
	if err = student.ValidateRoster(api.validate, api.translator, class, rows); err != nil {
		return err
	}

	created, err := api.svc.Import(ctx.Request().Context(), class, rows)
	if err != nil {
		return errors.Wrap(err, "importing roster")
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(api.validate, s); err != nil {
		return err
	}

	s, err = api.svc.Update(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) profile(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}
	p, err := api.svc.Profile(ctx.Request().Context(), s.ID, bindTerm(ctx))
	if err != nil {
		return errors.Wrap(err, "building academic profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *studentApi) recordScore(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}

	var data student.ScoreEntry
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreEntry")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.RecordScore(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) markAttendance(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}

	var data student.AttendanceMark
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceMark")
	}

	s, err = api.svc.MarkAttendance(ctx.Request().Context(), s.ID, data.Present)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) setAttendance(ctx echo.Context) error {
	s, err := ctxStudent(ctx)
	if err != nil {
		return err
	}

	var data grading.Attendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Attendance")
	}

	s, err = api.svc.SetAttendance(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "setting attendance")
	}
	return ctx.JSON(http.StatusOK, s)
}
