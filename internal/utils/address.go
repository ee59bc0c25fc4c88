package utils

import (
	"regexp"
	"strings"
)

// Dutch-style "Straatnaam 12 bis" addresses: trailing number plus an
// optional suffix, separated from the street by spaces or a comma.
var streetRe = regexp.MustCompile(`^(.*?)[\s,]+(\d+)(\s*\w*)$`)

// SplitStreet splits a street line into (street, houseNumber, suffix).
// When no house number is found the whole input comes back as street.
func SplitStreet(street, street2 string) (string, string, string) {
	full := strings.TrimSpace(strings.TrimSpace(street) + " " + strings.TrimSpace(street2))
	m := streetRe.FindStringSubmatch(full)
	if m == nil {
		return full, "", ""
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
}
