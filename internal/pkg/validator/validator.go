package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	return fields
}
