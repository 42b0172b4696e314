package shared

import (
	"net/url"
	"strconv"
	"strings"
)

// MaxOffset caps how deep a listing can be paged. Audit history past this
// point is reached by narrowing the filter instead.
const MaxOffset = 10000

type Page struct {
	Limit  int
	Offset int
}

// Page reads limit and offset from the query. Oversized limits are clamped
// to maxLimit; malformed values and offsets past MaxOffset are reported.
func (v *Validator) Page(query url.Values, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = n
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 0:
			v.Add("offset", "must be a non-negative integer")
		case n > MaxOffset:
			v.Add("offset", "must not exceed "+strconv.Itoa(MaxOffset))
		default:
			page.Offset = n
		}
	}
	return page
}
