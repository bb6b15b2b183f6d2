package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/memarch/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// hhmm accepts a strict 24-hour "HH:MM".
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseClock(fl.Field().String())
		return err == nil
	})

	return v
}

func fieldErrors(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "email":
			out[fe.Field()] = "must be a valid email address"
		case "oneof":
			out[fe.Field()] = "must be one of: " + fe.Param()
		case "hhmm":
			out[fe.Field()] = "must be a time formatted HH:MM"
		case "max":
			out[fe.Field()] = "must be at most " + fe.Param() + " characters"
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}
