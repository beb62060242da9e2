package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/abhisek/drivedesk/internal/validate"
)

// describe expands validation errors into one line per field.
func describe(err error) error {
	fields := validate.Fields(err)
	if fields == nil {
		return err
	}
	lines := make([]string, 0, len(fields))
	for _, k := range sortedKeys(fields) {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, fields[k]))
	}
	return fmt.Errorf("invalid input:\n%s", strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
