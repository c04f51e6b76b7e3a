package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/englishpoc/core"
)

// Type is the kind of work an assignment asks for.
type Type string

// Types
const (
	TypeEssay     Type = "essay"
	TypeSentences Type = "sentences"
	TypeGrammar   Type = "grammar"
)

var AllTypes = []Type{TypeEssay, TypeSentences, TypeGrammar}

func (t Type) IsValid() bool {
	switch t {
	case TypeEssay, TypeSentences, TypeGrammar:
		return true
	}
	return false
}

// Template is an assignment that can be handed out to many students.
type Template struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            Type      `json:"type"`
	GrammarLessonID *string   `json:"grammarLessonId"`
	CreatedAt       time.Time `json:"createdAt"` // UTC
	UpdatedAt       time.Time `json:"updatedAt"` // UTC
}

// NewTemplate contains information needed to create a new Template.
type NewTemplate struct {
	Title           string  `json:"title" validate:"required,notblank,max=200"`
	Description     string  `json:"description"`
	Type            Type    `json:"type" validate:"omitempty,assignmenttype"`
	GrammarLessonID *string `json:"grammarLessonId" validate:"omitnil,objectid"`
}

func (nt *NewTemplate) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	nt.Type = Type(core.CleanString(string(nt.Type), true /* lower */))
	if nt.Type == "" {
		nt.Type = TypeEssay
	}
	nt.GrammarLessonID = cleanLessonID(nt.GrammarLessonID)
	return validate.Struct(nt)
}

// OptionalID is a nullable id that also records whether it was sent at all:
// an absent key leaves the id untouched, `null` or a blank string clears it.
type OptionalID struct {
	Set bool
	ID  null.String
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	return o.ID.UnmarshalJSON(data)
}

// Ptr returns the id, or nil when it is cleared.
func (o OptionalID) Ptr() *string { return o.ID.Ptr() }

// UpdateTemplate defines what information may be provided to modify an existing Template.
// nil fields are left untouched.
type UpdateTemplate struct {
	Title           *string    `json:"title" validate:"omitnil,notblank,max=200"`
	Description     *string    `json:"description"`
	Type            *Type      `json:"type" validate:"omitnil,assignmenttype"`
	GrammarLessonID OptionalID `json:"grammarLessonId" validate:"omitempty,objectid"`
}

func (ut *UpdateTemplate) Validate(validate *validator.Validate) error {
	ut.Title = core.CleanStringPtr(ut.Title)
	ut.Description = core.CleanStringPtr(ut.Description)
	if ut.Type != nil {
		typ := Type(core.CleanString(string(*ut.Type), true /* lower */))
		ut.Type = &typ
	}
	if ut.GrammarLessonID.Set {
		ut.GrammarLessonID.ID = null.StringFromPtr(cleanLessonID(ut.GrammarLessonID.Ptr()))
	}
	return validate.Struct(ut)
}

// cleanLessonID treats a blank lesson id as absent.
func cleanLessonID(id *string) *string {
	id = core.CleanStringPtr(id, true /* lower */)
	if id != nil && *id == "" {
		return nil
	}
	return id
}
