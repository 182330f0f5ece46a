package client

import (
	"errors"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

// StatusError is returned when the backend answers an operation with a status
// code it does not accept. Re-exported so callers compare against a single
// symbol.
type StatusError = types.StatusError

// IsUnexpectedStatus reports whether err carries a StatusError and returns it
// for inspection when so.
func IsUnexpectedStatus(err error) (*StatusError, bool) {
	var se *types.StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
