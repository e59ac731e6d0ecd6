package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/edutracker/core"
)

const (
	orderingParam = "ordering"
	termParam     = "term"
)

// bindOrderings reads the `ordering` query param, e.g. `?ordering=class,-average`.
// Unknown fields are ignored.
func bindOrderings(ctx echo.Context, allowed ...string) []core.Ordering {
	return core.ParseOrderings(ctx.QueryParam(orderingParam), allowed...)
}

func bindTerm(ctx echo.Context) string {
	return core.CleanString(ctx.QueryParam(termParam))
}
