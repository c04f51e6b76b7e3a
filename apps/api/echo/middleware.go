package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/englishpoc/core/user"
)

var errForbidden = echo.NewHTTPError(http.StatusForbidden, "forbidden: insufficient permissions")

// writerRoles may manage the course material.
var writerRoles = []user.Role{user.RoleTeacher, user.RoleAdmin, user.RoleSystem}

// adminRoles may manage user accounts and student links.
var adminRoles = []user.Role{user.RoleAdmin, user.RoleSystem}

// requireRole lets the request through only if the authenticated identity holds one of roles.
func requireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, ok := getContextIdentity(ctx)
			if !ok {
				return errNotAuthenticated
			}
			if !id.HasAnyRole(roles...) {
				return errForbidden
			}
			return next(ctx)
		}
	}
}
