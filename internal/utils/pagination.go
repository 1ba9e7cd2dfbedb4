package utils

import (
	"net/http"
	"strconv"

	"github.com/dib506676/fast-api/internal/apperr"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

// ParseWindow reads ?skip and ?limit. skip must be >= 0; limit is clamped to
// [1, MaxLimit] and defaults to DefaultLimit.
func ParseWindow(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	skip, limit = 0, DefaultLimit

	if raw := q.Get("skip"); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, apperr.New(apperr.CodeInvalid, "skip must be a non-negative integer")
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, apperr.New(apperr.CodeInvalid, "limit must be an integer")
		}
		limit = min(max(limit, 1), MaxLimit)
	}
	return skip, limit, nil
}
