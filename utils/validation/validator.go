package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilchouksey/admissions-api/utils/apperror"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field errors are keyed by
// the json name of the field.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Validate runs ValidateStruct and converts failures into an
// *apperror.ValidationError keyed by json field name.
func (v *Validator) Validate(s interface{}) error {
	err := v.ValidateStruct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	return &apperror.ValidationError{Fields: FormatValidationErrors(validationErrs)}
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = "This field is required."
			case "email":
				errors[field] = "Enter a valid email address."
			case "username":
				errors[field] = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
			case "min":
				errors[field] = fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
			case "max":
				errors[field] = fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
			case "oneof":
				errors[field] = fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(e.Value()))
			case "url":
				errors[field] = "Enter a valid URL."
			default:
				errors[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
	}

	return errors
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}
