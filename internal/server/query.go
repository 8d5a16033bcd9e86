package server

import (
	"net/http"
	"strconv"

	"saltmarket/internal/domain"
	"saltmarket/pkg/errcodes"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// paging reads limit/offset query parameters with catalogue defaults.
func paging(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxPageLimit {
			return 0, 0, domain.NewError(errcodes.InvalidPaging, "limit must be an integer in [1, 200]")
		}
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, domain.NewError(errcodes.InvalidPaging, "offset must be a non-negative integer")
		}
	}

	return limit, offset, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed < 0 {
		return 0, domain.NewError(errcodes.ValidationError, name+" must be a non-negative number")
	}

	return parsed, nil
}
