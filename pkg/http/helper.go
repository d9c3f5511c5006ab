package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"homecare/pkg/config"
	apperrors "homecare/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	return config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset), nil
}

// ParseTimeParam parses an RFC3339 query parameter. Some clients lose the
// '+' of a timezone offset to URL decoding; a single interior space is
// restored before parsing.
func ParseTimeParam(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput(name + " query parameter is required")
	}
	if strings.Contains(raw, " ") && !strings.Contains(raw, "+") {
		raw = strings.Replace(raw, " ", "+", 1)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid "+name+" format, must be RFC3339", map[string]any{
			"value": raw,
		})
	}
	return t, nil
}
