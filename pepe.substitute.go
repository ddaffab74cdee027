package pepe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Substitute replaces every occurrence of each defined variable name in the
// line with the textual form of its value. Longer names apply first so a
// short name never matches inside a longer one; equal-length names apply in
// lexicographic order for determinism.
//
// This is best-effort literal text replacement, not scoped to token
// boundaries: it can and will rewrite unrelated text that happens to contain
// a variable name. Callers opt in via WithSubstitution.
func Substitute(line string, defines Defines) string {
	names := defines.Names()
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		line = strings.ReplaceAll(line, name, formatValue(defines[name]))
	}
	return line
}

// formatValue renders a variable value as substitution text. A variable
// defined without a value substitutes as the empty string.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
