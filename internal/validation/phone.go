// Package validation holds input validation shared by the message and
// customer services.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPhone is returned when a number does not match the Philippine
// mobile numbering format.
var ErrInvalidPhone = errors.New("invalid mobile number")

// Accepts the local 09XXXXXXXXX form and the international +639XXXXXXXXX form.
var phMobilePattern = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

// NormalizePhone validates a recipient number and returns it trimmed.
func NormalizePhone(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidPhone)
	}

	if !phMobilePattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, trimmed)
	}

	return trimmed, nil
}
