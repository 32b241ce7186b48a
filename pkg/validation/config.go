package validation

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ConfigValidator checks a configuration section by section and keeps
// every failure, so one run reports all of them.
type ConfigValidator struct {
	errors []error
	name   string
}

// NewConfigValidator creates a validator whose messages are prefixed with
// configName.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, fmt.Sprintf(format, args...)))
	return cv
}

// Required rejects an empty string.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.fail(field, "required field is empty")
	}
	return cv
}

// NonNegative rejects values below zero.
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.fail(field, "value %d must be non-negative", value)
	}
	return cv
}

// MinDuration rejects durations shorter than min.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		return cv.fail(field, "duration %v is below minimum %v", value, min)
	}
	return cv
}

// OneOf accepts value when it matches one of allowed, ignoring case.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return cv
		}
	}
	return cv.fail(field, "value %q must be one of %v", value, allowed)
}

// ListenAddr accepts host:port addresses such as ":8080" or
// "127.0.0.1:0".
func (cv *ConfigValidator) ListenAddr(field, value string) *ConfigValidator {
	if value == "" {
		return cv.Required(field, value)
	}
	if _, _, err := net.SplitHostPort(value); err != nil {
		return cv.fail(field, "listen address %q: %v", value, err)
	}
	return cv
}

// URLPath accepts absolute HTTP paths like "/graphql".
func (cv *ConfigValidator) URLPath(field, value string) *ConfigValidator {
	if !strings.HasPrefix(value, "/") {
		return cv.fail(field, "path %q must start with /", value)
	}
	return cv
}

// DistinctPaths rejects two mount paths that would collide on one mux.
func (cv *ConfigValidator) DistinctPaths(field, value, otherField, other string) *ConfigValidator {
	if value != "" && value == other {
		return cv.fail(field, "must differ from %s %q", otherField, other)
	}
	return cv
}

// Custom records fn's error against field.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When runs validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns nil, the single failure, or all failures joined.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	default:
		return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
	}
}

// DefaultOr returns value unless it is the zero value.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
