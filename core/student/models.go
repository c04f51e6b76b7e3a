package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/englishpoc/core"
)

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	UserID    *string   `json:"userId"` // linked user account, if any
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// IsLinkedTo reports whether the student profile belongs to the user identified by userID.
func (s Student) IsLinkedTo(userID string) bool {
	return s.UserID != nil && *s.UserID == userID
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Level string `json:"level" validate:"required,notblank,max=50"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Level = core.CleanString(ns.Level)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name  *string `json:"name" validate:"omitnil,notblank,max=100"`
	Level *string `json:"level" validate:"omitnil,notblank,max=50"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanStringPtr(us.Name)
	us.Level = core.CleanStringPtr(us.Level)
	return validate.Struct(us)
}

// LinkUser links a student to a user account; a nil UserID unlinks it.
type LinkUser struct {
	UserID *string `json:"userId" validate:"omitnil,objectid"`
}

func (lu *LinkUser) Validate(validate *validator.Validate) error {
	lu.UserID = core.CleanStringPtr(lu.UserID, true /* lower */)
	return validate.Struct(lu)
}
