package client

import (
	"errors"

	clienterrors "github.com/splinterstice/clientapp/client/internal/errors"
	"github.com/splinterstice/clientapp/client/internal/types"
)

// ErrRequestFailed matches every network failure, non-2xx response, and
// undecodable response body returned by the SDK.
var ErrRequestFailed = clienterrors.ErrRequestFailed

// ErrInvalidArgument is returned when a call is rejected before any request
// is sent, e.g. for an empty user ID.
var ErrInvalidArgument = types.ErrInvalidArgument

// RequestError carries the details of a failed round trip.
type RequestError = clienterrors.RequestError

// IsRequestFailed reports whether err is a request failure.
func IsRequestFailed(err error) bool { return errors.Is(err, ErrRequestFailed) }

// StatusCode returns the HTTP status of a failed request, or 0 when err did
// not come from a non-2xx response.
func StatusCode(err error) int { return clienterrors.StatusCode(err) }
