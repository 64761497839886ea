package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct fields against their validate tags; returns
// field -> failed tag, nil when valid.
func Validate(v interface{}) map[string]string {
	return toFieldMap(validate.Struct(v))
}

// FieldErrors extracts field -> failed tag from a gin binding error.
// Returns nil when the error carries no field-level detail.
func FieldErrors(err error) map[string]string {
	return toFieldMap(err)
}

func toFieldMap(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
