// Package literal classifies raw SQL literal text into document values.
//
// Parsing never fails: text that is not a quoted string, boolean or number
// is returned unchanged as a String. Bare words on the right-hand side of a
// comparison therefore pass through as strings.
package literal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/sqlmongo/internal/doc"
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// ParseValue classifies a single literal token.
//
//	'text'       -> String (quote content verbatim, no escape processing)
//	true / FALSE -> Bool
//	-12          -> Int
//	-1.5         -> Float
//	anything else -> String of the trimmed token
//
// An integer that overflows int64 degrades to a String like any other
// unparseable token.
func ParseValue(token string) doc.Value {
	raw := strings.TrimSpace(token)
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return doc.String(raw[1 : len(raw)-1])
	}
	if strings.EqualFold(raw, "true") {
		return doc.Bool(true)
	}
	if strings.EqualFold(raw, "false") {
		return doc.Bool(false)
	}
	if intPattern.MatchString(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return doc.Int(n)
		}
		return doc.String(raw)
	}
	if floatPattern.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return doc.Float(f)
		}
	}
	return doc.String(raw)
}

// ParseArray parses a comma-separated literal list such as (1, 'a', true).
// One optional pair of enclosing parentheses is stripped. Commas inside
// single-quoted strings do not split elements; nested parentheses are not
// tracked since list elements are literals only.
func ParseArray(token string) doc.Array {
	raw := strings.TrimSpace(token)
	if len(raw) >= 2 && raw[0] == '(' && raw[len(raw)-1] == ')' {
		raw = raw[1 : len(raw)-1]
	}

	parts := splitCommas(raw)
	arr := make(doc.Array, len(parts))
	for i, part := range parts {
		arr[i] = ParseValue(part)
	}
	return arr
}

// splitCommas splits s on commas outside single quotes.
func splitCommas(s string) []string {
	var parts []string
	inQuote := false
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}
