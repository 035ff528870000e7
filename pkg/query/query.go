package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/abcscribe/abcscribe/pkg/pointer"
)

// dateLayout is the wire format for date-valued query parameters.
const dateLayout = "2006-01-02"

// OptionalInt parses an integer query parameter.
// Returns nil for absent or unparseable values so the caller can treat the
// filter as not supplied.
func OptionalInt(val string) *int {
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return pointer.To(n)
}

// OptionalDate parses a YYYY-MM-DD query parameter.
// Unparseable dates yield nil: a bad date drops the filter, never the request.
func OptionalDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil
	}
	return pointer.To(t)
}

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
