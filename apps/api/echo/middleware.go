package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/user"
)

const objectContextKey = "object"

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

// ctxUserMiddleware loads the authenticated account, rejecting tokens of deleted accounts.
func ctxUserMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if _, err := getContextUser(ctx, svc); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// studentMiddleware loads the `:id` student into the context.
func studentMiddleware(svc *student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set(objectContextKey, s)
			return next(ctx)
		}
	}
}

func ctxStudent(ctx echo.Context) (student.Student, error) {
	s, ok := ctx.Get(objectContextKey).(student.Student)
	if !ok {
		return student.Student{}, errors.Wrap(errObjNotFoundInCtx, "retrieving student from context")
	}
	return s, nil
}
