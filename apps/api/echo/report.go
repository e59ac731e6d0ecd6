package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/report"
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := reportApi{svc: s.deps.ReportSvc, validate: s.deps.Validate}

	ag := g.Group("", jwt, ctxUserMiddleware(s.deps.UserSvc))
	ag.GET("/reports/:id", api.reportCard)
	ag.GET("/reports/:id/export", api.export)
	ag.POST("/reports/:id/email", api.email)
	ag.GET("/analytics", api.analytics)
	ag.GET("/dashboard", api.dashboard)
}

type ReportRequest struct {
	Term    string `json:"term" query:"term" validate:"max=50"`
	Remarks string `json:"remarks" query:"remarks" validate:"max=500"`
}

func (rr *ReportRequest) Validate(validate *validator.Validate) error {
	rr.Term = core.CleanString(rr.Term)
	rr.Remarks = core.CleanString(rr.Remarks)
	return validate.Struct(rr)
}

func (api *reportApi) bindRequest(ctx echo.Context) (ReportRequest, error) {
	var data ReportRequest
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to ReportRequest")
	}
	return data, data.Validate(api.validate)
}

// Handlers

func (api *reportApi) reportCard(ctx echo.Context) error {
	data, err := api.bindRequest(ctx)
	if err != nil {
		return err
	}
	card, err := api.svc.ReportCard(ctx.Request().Context(), ctx.Param("id"), data.Term, data.Remarks)
	if err != nil {
		return errors.Wrap(err, "generating report card")
	}
	return ctx.JSON(http.StatusOK, card)
}

func (api *reportApi) export(ctx echo.Context) error {
	data, err := api.bindRequest(ctx)
	if err != nil {
		return err
	}
	card, err := api.svc.ReportCard(ctx.Request().Context(), ctx.Param("id"), data.Term, data.Remarks)
	if err != nil {
		return errors.Wrap(err, "generating report card")
	}

	var buf bytes.Buffer
	if err = api.svc.Export(&buf, card); err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", card.Filename()))
	return ctx.Blob(http.StatusOK, report.XLSXContentType, buf.Bytes())
}

func (api *reportApi) email(ctx echo.Context) error {
	data, err := api.bindRequest(ctx)
	if err != nil {
		return err
	}
	card, err := api.svc.EmailReportCard(ctx.Request().Context(), ctx.Param("id"), data.Term, data.Remarks)
	if err != nil {
		return errors.Wrap(err, "emailing report card")
	}
	return ctx.JSON(http.StatusAccepted, card)
}

func (api *reportApi) analytics(ctx echo.Context) error {
	res, err := api.svc.Analytics(ctx.Request().Context(), bindTerm(ctx))
	if err != nil {
		return errors.Wrap(err, "computing analytics")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	res, err := api.svc.Dashboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, res)
}
