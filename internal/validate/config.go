package validate

import (
	"fmt"
	"time"
)

// ValidateRequiredString returns "<fieldName> cannot be empty" for an empty value.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout rejects zero and negative durations.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}

// ValidateURL checks that value is an absolute http or https URL.
func ValidateURL(value, name string) error {
	if err := ValidateField(value, "required,http_url"); err != nil {
		return fmt.Errorf("%s must be an http(s) URL, got '%s'", name, value)
	}
	return nil
}
