package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/student"
	"github.com/trezcool/englishpoc/core/user"
)

var (
	errSelfDelete         = echo.NewHTTPError(http.StatusForbidden, "you cannot delete your own account")
	errNoPermsToSetRole   = core.NewValidationError(nil, core.FieldError{Field: "role", Error: "not enough rights to set this role"})
	errRoleNotSelfGranted = core.NewValidationError(nil, core.FieldError{Field: "role", Error: "only student or teacher accounts can be registered"})
)

type userApi struct {
	conf       *core.Config
	svc        user.ServiceInterface
	studentSvc student.ServiceInterface
	validate   *validator.Validate
}

func registerUserAPI(g *echo.Group, auth echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		conf:       deps.Conf,
		svc:        deps.UserSvc,
		studentSvc: deps.StudentSvc,
		validate:   deps.Validate,
	}

	// un-authed endpoints
	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)

	// authed endpoints
	ag.GET("/me", api.me, auth)
	ag.POST("/token-refresh", api.refreshToken, auth)

	ug := g.Group("/users", auth, requireRole(adminRoles...))
	ug.GET("", api.query)
	ug.POST("", api.create)
	ug.PUT("/:id", api.update)
	ug.DELETE("/:id", api.destroy)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}
	if !lo.Contains(user.SelfRegisterRoles, data.Role) {
		return errRoleNotSelfGranted
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return api.respondWithToken(ctx, http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return errInvalidLogin
		}
		return errors.Wrap(err, "authenticating")
	}
	return api.respondWithToken(ctx, http.StatusOK, usr)
}

func (api *userApi) respondWithToken(ctx echo.Context, code int, usr user.User) error {
	token, err := GenerateToken(api.conf, GetUserClaims(api.conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, AuthResponse{
		ID:       usr.ID,
		Username: usr.Username,
		Role:     usr.Role,
		Token:    token,
	})
}

func (api *userApi) me(ctx echo.Context) error {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return ctx.JSON(http.StatusOK, usr)
	}
	id, ok := getContextIdentity(ctx)
	if !ok {
		return errNotAuthenticated
	}
	return ctx.JSON(http.StatusOK, id)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	// ctxUser cannot set a role > their own
	actor, _ := getContextIdentity(ctx)
	if data.Role.Priority() > actor.Role.Priority() {
		return errNoPermsToSetRole
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	if err = data.Validate(ctx.Request().Context(), usr, api.validate, api.svc); err != nil {
		return err
	}

	// ctxUser cannot manage users above them, nor set a role > their own
	actor, _ := getContextIdentity(ctx)
	if usr.Role.Priority() > actor.Role.Priority() {
		return errForbidden
	}
	if data.Role != nil && data.Role.Priority() > actor.Role.Priority() {
		return errNoPermsToSetRole
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id := ctx.Param("id")

	// Say No to Suicide! ctxUser cannot delete themselves
	if actor, _ := getContextIdentity(ctx); actor.ID == id {
		return errSelfDelete
	}

	// unlinking is idempotent; a failure here leaves the user in place
	if err := api.studentSvc.UnlinkUser(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "unlinking user from student")
	}
	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "user deleted successfully"})
}
