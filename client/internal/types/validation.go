package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ------------------------------
// Shared Interfaces
// ------------------------------

// HTTPClient interface for dependency injection
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ------------------------------
// Shared Errors
// ------------------------------

// ErrInvalidArgument is returned when a call is rejected before any I/O.
var ErrInvalidArgument = errors.New("invalid argument")

// ValidateIDPresent ensures an identifier is non-blank. The server remains
// the authority on ID format; this only prevents malformed paths and bodies.
func ValidateIDPresent(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s is required: %w", field, ErrInvalidArgument)
	}
	return nil
}
