package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// One schema per entity, applied at every mutation entry point, so add and
// update can never drift apart. The struct tags on Machine and User are that
// schema; this file only translates validator output into the per-field
// Polish messages the forms display.

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateMachine checks a machine record and returns a *ValidationError
// with per-field messages when it is invalid.
func ValidateMachine(m Machine) error {
	return translate(validate.Struct(m), machineMessage)
}

// ValidateUser checks a user record the same way.
func ValidateUser(u User) error {
	return translate(validate.Struct(u), userMessage)
}

func translate(err error, message func(field, tag string) string) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string][]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fe.Field()
		out.Fields[field] = append(out.Fields[field], message(field, fe.Tag()))
	}
	return out
}

func machineMessage(field, tag string) string {
	switch {
	case field == "type":
		return "Typ jest wymagany."
	case field == "model":
		return "Model jest wymagany."
	case tag == "gte":
		return "Wartość nie może być ujemna."
	default:
		return "Nieprawidłowa wartość."
	}
}

func userMessage(field, tag string) string {
	switch {
	case field == "login":
		return "Nieprawidłowy format email."
	case field == "hash":
		return "Hasło jest wymagane."
	default:
		return "Nieprawidłowa wartość."
	}
}
