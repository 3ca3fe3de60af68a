// Package validation checks form payloads before they reach the backend and
// reports failures in the same field -> message shape the backend uses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/ferry-admin/internal/domain"
	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// CrossChecker is implemented by payloads with rules spanning several
// optional fields, which struct tags cannot express.
type CrossChecker interface {
	CrossCheck() map[string]string
}

// Validator wraps go-playground/validator with json field names.
type Validator struct {
	validate *validator.Validate
}

// New builds a validator.
func New() *Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterCustomTypeFunc(optionalValue[string], domain.Optional[string]{})
	validate.RegisterCustomTypeFunc(optionalValue[int], domain.Optional[int]{})
	validate.RegisterCustomTypeFunc(optionalValue[int64], domain.Optional[int64]{})
	validate.RegisterCustomTypeFunc(optionalValue[float64], domain.Optional[float64]{})
	return &Validator{validate: validate}
}

// optionalValue exposes a provided value to the tag rules; absent and null
// fields validate as empty.
func optionalValue[T any](field reflect.Value) interface{} {
	opt, ok := field.Interface().(domain.Optional[T])
	if !ok {
		return nil
	}
	if v, ok := opt.Get(); ok {
		return v
	}
	return nil
}

// Struct validates s. Failures come back as a VALIDATION_FAILED DomainError
// whose details carry one message per field.
func (v *Validator) Struct(s interface{}) error {
	fields := map[string]string{}
	if err := v.validate.Struct(s); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid validation error: %w", err)
		}
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		for _, fe := range validationErrors {
			if _, seen := fields[fe.Field()]; !seen {
				fields[fe.Field()] = message(fe)
			}
		}
	}
	if checker, ok := s.(CrossChecker); ok {
		for field, msg := range checker.CrossCheck() {
			if _, seen := fields[field]; !seen {
				fields[field] = msg
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidationError("the given data was invalid", fields)
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	param := words(fe.Param())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "eqfield":
		return fmt.Sprintf("The %s must match %s.", field, param)
	case "nefield":
		return fmt.Sprintf("The %s and %s must be different.", field, param)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// words turns a Go field name such as CurrentPassword into "current password".
func words(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
