package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/report"
	"github.com/trezcool/edutracker/core/student"
)

type classApi struct {
	students *student.Service
	reports  *report.Service
}

func registerClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := classApi{students: s.deps.StudentSvc, reports: s.deps.ReportSvc}

	cg := g.Group("/classes", jwt, ctxUserMiddleware(s.deps.UserSvc))
	cg.GET("", api.query)
	cg.GET("/:class/ranking", api.ranking)
	cg.GET("/:class/ranking/export", api.exportRanking)
	cg.GET("/:class/aggregate", api.aggregate)
	cg.POST("/:class/attendance", api.markAllPresent)
}

// className unescapes the `:class` path param, e.g. "Class%205A".
func className(ctx echo.Context) string {
	class := ctx.Param("class")
	if unescaped, err := url.PathUnescape(class); err == nil {
		return unescaped
	}
	return class
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	classes, err := api.students.Classes(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) ranking(ctx echo.Context) error {
	profiles, err := api.students.ClassProfiles(ctx.Request().Context(), className(ctx), bindTerm(ctx))
	if err != nil {
		return errors.Wrap(err, "ranking class")
	}
	if len(profiles) == 0 {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *classApi) exportRanking(ctx echo.Context) error {
	class := className(ctx)
	var buf bytes.Buffer
	if err := api.reports.ExportClassRanking(ctx.Request().Context(), &buf, class, bindTerm(ctx)); err != nil {
		return errors.Wrap(err, "exporting class ranking")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "ranking-"+class+".xlsx"))
	return ctx.Blob(http.StatusOK, report.XLSXContentType, buf.Bytes())
}

func (api *classApi) aggregate(ctx echo.Context) error {
	agg, err := api.reports.ClassAggregate(ctx.Request().Context(), className(ctx), bindTerm(ctx))
	if err != nil {
		return errors.Wrap(err, "aggregating class")
	}
	return ctx.JSON(http.StatusOK, agg)
}

func (api *classApi) markAllPresent(ctx echo.Context) error {
	n, err := api.students.MarkAllPresent(ctx.Request().Context(), className(ctx))
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	if n == 0 {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, echo.Map{"marked": n})
}
