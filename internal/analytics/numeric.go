package analytics

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a stored cell as a decimal. Missing, empty, malformed and
// non-finite values count as 0 so one bad cell never fails an aggregation.
// ok is false only for a non-empty cell that is malformed.
func ParseNumber(v *string) (f float64, ok bool) {
	if v == nil {
		return 0, true
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
