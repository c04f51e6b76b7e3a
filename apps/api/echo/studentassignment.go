package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	sa "github.com/trezcool/englishpoc/core/studentassignment"
)

type studentAssignmentApi struct {
	svc      sa.ServiceInterface
	validate *validator.Validate
}

func registerStudentAssignmentAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := studentAssignmentApi{
		svc:      deps.LinkSvc,
		validate: deps.Validate,
	}

	lg := g.Group("/student-assignments", auth)
	lg.GET("", api.query)
	lg.POST("", api.create, requireRole(writerRoles...))
	lg.GET("/:id", api.retrieve)
	lg.PATCH("/:id", api.update)
	lg.DELETE("/:id", api.destroy, requireRole(writerRoles...))
}

// Handlers

func (api *studentAssignmentApi) query(ctx echo.Context) error {
	actor, _ := getContextIdentity(ctx)
	links, err := api.svc.Query(ctx.Request().Context(), actor, bindLinkFilter(ctx))
	if err != nil {
		return errors.Wrap(err, "querying student assignments")
	}
	return ctx.JSON(http.StatusOK, links)
}

func (api *studentAssignmentApi) create(ctx echo.Context) error {
	var data sa.NewLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLink")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lnk, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student assignment")
	}
	return ctx.JSON(http.StatusCreated, lnk)
}

func (api *studentAssignmentApi) retrieve(ctx echo.Context) error {
	actor, _ := getContextIdentity(ctx)
	lnk, err := api.svc.GetByID(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student assignment by ID")
	}
	return ctx.JSON(http.StatusOK, lnk)
}

func (api *studentAssignmentApi) update(ctx echo.Context) error {
	var data sa.Update
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Update")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	actor, _ := getContextIdentity(ctx)
	lnk, err := api.svc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating student assignment")
	}
	return ctx.JSON(http.StatusOK, lnk)
}

func (api *studentAssignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "student assignment deleted successfully"})
}
