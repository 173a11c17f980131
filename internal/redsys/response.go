package redsys

import (
	"strconv"
	"strings"
)

// IsSuccessfulResponse classifies Ds_Response: numeric codes 0..99 are authorisations,
// everything else, including non-numeric codes, is a failure.
func IsSuccessfulResponse(code string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return false
	}
	return n >= 0 && n <= 99
}
