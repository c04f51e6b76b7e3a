package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core/grammar"
)

type grammarApi struct {
	svc      grammar.ServiceInterface
	validate *validator.Validate
}

func registerGrammarAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := grammarApi{
		svc:      deps.GrammarSvc,
		validate: deps.Validate,
	}

	gg := g.Group("/grammar", auth)
	gg.GET("", api.query)
	gg.POST("", api.create, requireRole(writerRoles...))
	gg.GET("/slug/:slug", api.retrieveBySlug)
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update, requireRole(writerRoles...))
	gg.DELETE("/:id", api.destroy, requireRole(writerRoles...))
}

// Handlers

func (api *grammarApi) query(ctx echo.Context) error {
	lessons, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *grammarApi) create(ctx echo.Context) error {
	var data grammar.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	lsn, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, lsn)
}

func (api *grammarApi) retrieve(ctx echo.Context) error {
	lsn, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *grammarApi) retrieveBySlug(ctx echo.Context) error {
	lsn, err := api.svc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by slug")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *grammarApi) update(ctx echo.Context) error {
	lsn, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding lesson by ID")
	}

	var data grammar.UpdateLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}
	if err = data.Validate(ctx.Request().Context(), lsn, api.validate, api.svc); err != nil {
		return err
	}

	lsn, err = api.svc.Update(ctx.Request().Context(), lsn.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, lsn)
}

func (api *grammarApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "lesson deleted successfully"})
}
