package assignment

import (
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/englishpoc/core"
)

var (
	typeTag  = "assignmenttype"
	typeText = "type must be one of: essay, sentences, grammar"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)

	validate.RegisterCustomTypeFunc(optionalIDValue, OptionalID{})
}

// optionalIDValue exposes the id of an OptionalID to the field validators; a cleared id is empty.
func optionalIDValue(field reflect.Value) interface{} {
	if o, ok := field.Interface().(OptionalID); ok && o.ID.Valid {
		return o.ID.String
	}
	return ""
}

func typeValidation(fl validator.FieldLevel) bool {
	return Type(fl.Field().String()).IsValid()
}
