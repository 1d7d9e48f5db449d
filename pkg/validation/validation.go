// Package validation wraps go-playground/validator so domain systems report the
// first failing field using its JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes the first rule a value failed.
type FieldError struct {
	Field string
	Rule  string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
}

// Validator validates command structs and individual values.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// RegisterPattern adds a tag that requires the whole string to match re.
// Empty strings pass so the tag composes with omitempty and required.
func (v *Validator) RegisterPattern(tag string, re *regexp.Regexp) error {
	return v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || re.MatchString(s)
	})
}

// Struct validates s and returns the first failing field as a *FieldError.
func (v *Validator) Struct(s any) error {
	return firstError(v.validate.Struct(s), "")
}

// Var validates a single value against tag, reporting failures under field.
func (v *Validator) Var(field string, value any, tag string) error {
	return firstError(v.validate.Var(value, tag), field)
}

func firstError(err error, field string) error {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}

	fe := ve[0]
	name := field
	if name == "" {
		name = fe.Field()
	}

	return &FieldError{
		Field: name,
		Rule:  fe.Tag(),
		Param: fe.Param(),
		Value: fe.Value(),
	}
}
