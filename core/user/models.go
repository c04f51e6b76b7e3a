package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/englishpoc/core"
)

// Role is the closed set of user roles.
type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleSystem  Role = "system" // service-to-service callers
)

var (
	AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleSystem}

	// SelfRegisterRoles are the roles anyone may pick when registering.
	SelfRegisterRoles = []Role{RoleStudent, RoleTeacher}

	errInvalidRole = errors.New("invalid role")
)

// ParseRole converts s into a Role, failing on anything outside AllRoles.
func ParseRole(s string) (Role, error) {
	role := Role(core.CleanString(s, true /* lower */))
	if !role.IsValid() {
		return "", errInvalidRole
	}
	return role, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Priority ranks roles: a user may only grant roles up to their own priority.
func (r Role) Priority() int {
	switch r {
	case RoleSystem:
		return 40
	case RoleAdmin:
		return 30
	case RoleTeacher:
		return 20
	case RoleStudent:
		return 10
	}
	return 0
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Identity returns the authenticated identity of u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,role"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	if nu.Role == "" {
		nu.Role = RoleStudent
	}

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Username)
}

// UpdateUser defines what information may be provided to modify an existing User.
// nil fields are left untouched.
type UpdateUser struct {
	Username *string `json:"username" validate:"omitnil,notblank,max=64"`
	Password *string `json:"password" validate:"omitnil,notblank"`
	Role     *Role   `json:"role" validate:"omitnil,role"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, validate *validator.Validate, svc ServiceInterface) error {
	uu.Username = core.CleanStringPtr(uu.Username, true /* lower */)
	if uu.Role != nil {
		role := Role(core.CleanString(string(*uu.Role), true /* lower */))
		uu.Role = &role
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	if uu.Username != nil && *uu.Username != origUsr.Username {
		return svc.CheckUniqueness(ctx, *uu.Username, origUsr)
	}
	return nil
}
