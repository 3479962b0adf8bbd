package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Sanitizer interface {
	Sanitize()
}

// Will sanitize then validate v. Returns the message of the first failing field.
func RunStructValidator(validate *validator.Validate, v Sanitizer) (msg string, hasError bool, err error) {
	v.Sanitize()

	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors

		if !errors.As(err, &validationErrors) {
			return "", false, fmt.Errorf("struct validator error: %w", err)
		}

		for _, fieldErr := range validationErrors {
			return ValidationErrMsg(fieldErr.StructField(), fieldErr.Tag(), fieldErr.Param()), true, nil
		}
	}

	return "", false, nil
}

// Will construct an error message based on the validation error.
func ValidationErrMsg(field string, tag string, param string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%v is required", field)

	case "min":
		return fmt.Sprintf("%v minimum length of %v", field, param)

	case "max":
		return fmt.Sprintf("%v maximum length of %v", field, param)

	case "email":
		return "email is invalid"

	default:
		return fmt.Sprintf("no error message for validation type %v", tag)
	}
}
