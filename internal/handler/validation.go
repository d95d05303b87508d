package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the "notblank" tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}

// promptFailed reports whether the Prompt field is among the failures.
func promptFailed(err error) bool {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			if e.Field() == "Prompt" {
				return true
			}
		}
	}
	return false
}
