package curriculum

import (
	"regexp"
	"strconv"
	"strings"
)

var inCarPattern = regexp.MustCompile(`(?i)^in-car session\s+(\d+)$`)

// NormalizeKey maps a class title to the key used to match it against the
// template. "In-Car Session N" in any case becomes "in-car-N"; anything
// else becomes the lowercased, trimmed title.
func NormalizeKey(title string) string {
	title = strings.TrimSpace(title)
	if n, ok := InCarNumber(title); ok {
		return "in-car-" + strconv.Itoa(n)
	}
	return strings.ToLower(title)
}

// InCarNumber extracts N from an "In-Car Session N" title.
func InCarNumber(title string) (int, bool) {
	m := inCarPattern.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
