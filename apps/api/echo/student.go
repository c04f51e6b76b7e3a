package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/students", auth)
	sg.GET("", api.query)
	sg.POST("", api.create, requireRole(writerRoles...))
	sg.GET("/me", api.retrieveOwn)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, requireRole(writerRoles...))
	sg.PATCH("/:id/link-user", api.linkUser, requireRole(adminRoles...))
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
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

	std, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, std)
}

// retrieveOwn returns the student profile linked to the authenticated user.
func (api *studentApi) retrieveOwn(ctx echo.Context) error {
	actor, _ := getContextIdentity(ctx)
	std, err := api.svc.GetByUserID(ctx.Request().Context(), actor.ID)
	if err != nil {
		return errors.Wrap(err, "finding student by user ID")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) linkUser(ctx echo.Context) error {
	var data student.LinkUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LinkUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.LinkUser(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "linking student user")
	}
	return ctx.JSON(http.StatusOK, std)
}
