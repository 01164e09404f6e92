package maps

import (
	"regexp"
	"strings"
)

// trailingNumber matches a street number at the end of an address, separated
// by a comma and/or whitespace.
var trailingNumber = regexp.MustCompile(`^(.*?)[,\s]+\d+$`)

// NormalizeAddress drops a trailing street number ("Rua das Flores, 123" ->
// "Rua das Flores") before geocoding.
func NormalizeAddress(address string) string {
	trimmed := strings.TrimSpace(address)
	if m := trailingNumber.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}
