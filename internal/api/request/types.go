package request

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when none is given
	DefaultLimit = 20
	// MaxLimit caps the page size a client can request
	MaxLimit = 100
)

// ErrInvalidLimit is returned for a limit that is not a positive integer
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Limit parses the ?limit= query parameter, capped at MaxLimit
func Limit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, ErrInvalidLimit
	}
	return min(limit, MaxLimit), nil
}
