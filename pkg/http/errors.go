package http

import (
	"errors"
	"fmt"
	"net/http"

	"StockTrack/pkg/errs"
)

// StatusError is returned by Client when the remote answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err carries a remote status equal to code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// StatusFor maps an error kind to the HTTP status returned to clients.
func StatusFor(kind errs.Kind) int {
	switch kind {
	case errs.Validation, errs.Conflict:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	case errs.Unauthorized:
		return http.StatusUnauthorized
	default:
		// Upstream and Internal
		return http.StatusInternalServerError
	}
}
