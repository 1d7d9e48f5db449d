package tools

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/JaimeStill/agent-instances/pkg/validation"
)

const (
	MaxDisplayNameLength = 80
	MaxDescriptionLength = 1000
)

var (
	manifestText  = regexp.MustCompile(`^[a-zA-Z0-9 .,!?:;'"\-_]+$`)
	handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)
)

var validate = mustValidator()

// mustValidator registers the manifest patterns and panics if either is
// rejected.
func mustValidator() *validation.Validator {
	v := validation.New()
	if err := v.RegisterPattern("manifest_text", manifestText); err != nil {
		panic(err)
	}
	if err := v.RegisterPattern("handle", handlePattern); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the manifest's free-text and URL fields in order and returns
// the first violation. Empty fields are skipped.
func Validate(t *Tool) error {
	checks := []struct {
		field string
		value string
		tag   string
	}{
		{"display_name", t.DisplayName, fmt.Sprintf("omitempty,max=%d,manifest_text", MaxDisplayNameLength)},
		{"description", t.Description, fmt.Sprintf("omitempty,max=%d,manifest_text", MaxDescriptionLength)},
		{"api_url", t.APIURL, "omitempty,http_url"},
		{"logo_url", t.LogoURL, "omitempty,http_url"},
	}

	for _, c := range checks {
		if err := validate.Var(c.field, c.value, c.tag); err != nil {
			return toValidationError(err)
		}
	}
	return nil
}

// validateCommand runs the manifest rules and then the command's structural rules.
func validateCommand(cmd Command) (Tool, error) {
	t := cmd.Tool()
	if err := Validate(&t); err != nil {
		return Tool{}, err
	}
	if err := validate.Struct(cmd); err != nil {
		return Tool{}, toValidationError(err)
	}
	return t, nil
}

func toValidationError(err error) error {
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Field: fe.Field, Rule: fe.Rule, Value: fe.Value}
	}
	return err
}
