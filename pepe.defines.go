package pepe

import (
	"sort"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Definition parsing error constants
const (
	ErrCodeDefine = "PEPE_DEFINE"

	ErrMsgInvalidDefinition = "invalid definition expression"

	MetaKeyExpression = "expression"
)

// Defines is the variable table threaded through a preprocessing run. Values
// are nil (defined without a value), bool, int, float64 or string. The table
// is passed into and returned from every processing call rather than held as
// ambient shared state.
type Defines map[string]any

// Get implements variable lookup for expression evaluation.
func (d Defines) Get(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// Clone returns an independent copy of the table.
func (d Defines) Clone() Defines {
	clone := make(Defines, len(d))
	for k, v := range d {
		clone[k] = v
	}
	return clone
}

// Names returns all variable names in sorted order.
func (d Defines) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseDefinition parses a NAME[=VALUE] definition expression as accepted by
// the -D flag and by #define bodies. The name is stripped of surrounding
// whitespace; the value keeps its exact text when it is not a number or
// boolean. A definition with no value yields a nil value.
func ParseDefinition(expr string) (string, any, error) {
	name := expr
	var value any

	if idx := strings.Index(expr, "="); idx >= 0 {
		name = expr[:idx]
		value = ParseValueToken(expr[idx+1:])
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, cuserr.NewValidationError(ErrCodeDefine, ErrMsgInvalidDefinition).
			WithMetadata(MetaKeyExpression, expr)
	}
	return name, value, nil
}

// ParseDefinitions builds a variable table from a list of NAME[=VALUE]
// expressions, as collected from repeated -D flags.
func ParseDefinitions(exprs []string) (Defines, error) {
	defines := make(Defines, len(exprs))
	for _, expr := range exprs {
		name, value, err := ParseDefinition(expr)
		if err != nil {
			return nil, err
		}
		defines[name] = value
	}
	return defines, nil
}

// ParseValueToken converts a raw value token to its typed form: integer
// (decimal, 0x-prefixed hex, or leading-0 octal), float when the token
// contains a decimal point, case-insensitive true/false, else the literal
// string unchanged.
func ParseValueToken(token string) any {
	if n, err := parseNumberToken(token); err == nil {
		return n
	}
	return parseBoolToken(token)
}

// parseNumberToken parses a numeric token as float (only when it contains a
// decimal point) or base-aware integer.
func parseNumberToken(token string) (any, error) {
	if strings.Contains(token, ".") {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return parseIntToken(token)
}

// parseIntToken parses an integer token honoring 0x/0X hex and leading-0
// octal prefixes.
func parseIntToken(token string) (int, error) {
	switch {
	case strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X"):
		n, err := strconv.ParseInt(token[2:], 16, 64)
		return int(n), err
	case len(token) > 1 && strings.HasPrefix(token, "0"):
		n, err := strconv.ParseInt(token[1:], 8, 64)
		return int(n), err
	default:
		n, err := strconv.ParseInt(token, 10, 64)
		return int(n), err
	}
}

// parseBoolToken maps true/false in any casing to booleans and leaves every
// other token as a plain string.
func parseBoolToken(token string) any {
	switch strings.ToLower(token) {
	case "true":
		return true
	case "false":
		return false
	default:
		return token
	}
}
