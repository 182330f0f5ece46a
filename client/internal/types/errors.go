package types

import "fmt"

// ------------------------------
// Shared Errors
// ------------------------------

// StatusError reports a response whose status code differed from the
// operation's expected code. The message embeds the observed code so callers
// that only inspect error text still see it.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}
