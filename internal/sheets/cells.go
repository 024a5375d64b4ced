package sheets

import (
	"regexp"
	"strconv"
)

var plainNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// CellValue returns s as a float64 when it is a plain decimal number, so
// writers store it in a numeric cell. Anything else, including numbers with
// leading zeros such as account numbers, stays text.
func CellValue(s string) interface{} {
	if !plainNumber.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return f
}
