package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/englishpoc/core"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
)

const studentIDParam = "studentId"

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// AuthResponse is returned on successful registration or login.
	AuthResponse struct {
		ID       string    `json:"id"`
		Username string    `json:"username"`
		Role     user.Role `json:"role"`
		Token    string    `json:"token"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

// bindLinkFilter reads the optional `?studentId=` query filter.
func bindLinkFilter(ctx echo.Context) sa.Filter {
	return sa.Filter{StudentID: core.CleanString(ctx.QueryParam(studentIDParam), true /* lower */)}
}
