package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	MaxNameLength       = 64
	MaxPayloadKeyLength = 100

	// kind tags: lower-case dotted identifiers, e.g. "math.add"
	kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)
	// port names: identifier-like, may contain dashes
	portPattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)
	payloadKeyPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
	validate.RegisterValidation("kindname", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) <= MaxNameLength && kindPattern.MatchString(s)
	})
	validate.RegisterValidation("portname", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) <= MaxNameLength && portPattern.MatchString(s)
	})
}

// Struct validates v against its `validate` struct tags and returns the
// first failure in a readable form.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateKindName checks a node-kind tag.
func ValidateKindName(name string) error {
	if !kindPattern.MatchString(name) || len(name) > MaxNameLength {
		return fmt.Errorf("kind name %q is invalid (lower-case identifiers separated by dots, max %d chars)", name, MaxNameLength)
	}
	return nil
}

// ValidatePortName checks a port name.
func ValidatePortName(name string) error {
	if !portPattern.MatchString(name) || len(name) > MaxNameLength {
		return fmt.Errorf("port name %q is invalid (identifier characters and dashes, max %d chars)", name, MaxNameLength)
	}
	return nil
}

// ValidatePayloadKey validates a node payload key
func ValidatePayloadKey(key string) error {
	if key == "" {
		return errors.New("payload key cannot be empty")
	}
	if len(key) > MaxPayloadKeyLength {
		return fmt.Errorf("payload key '%s' exceeds maximum length of %d characters", key, MaxPayloadKeyLength)
	}
	if !payloadKeyPattern.MatchString(key) {
		return fmt.Errorf("payload key '%s' is invalid (must start with letter or underscore, followed by alphanumeric or underscore)", key)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := strings.TrimPrefix(e.Namespace(), rootName(e.Namespace()))
		if field == "" {
			field = e.Field()
		}
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "kindname":
			return fmt.Errorf("%s: %q is not a valid kind name", field, e.Value())
		case "portname":
			return fmt.Errorf("%s: %q is not a valid port name", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// rootName returns the leading "Struct." of a validator namespace.
func rootName(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[:i+1]
	}
	return ""
}
