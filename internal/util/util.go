// Package util provides the argument helpers shared by the text commands
// and the spawn search parser.
package util

import (
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// Arg returns the n-th (1-based) whitespace separated argument of s.
// Double quotes group words into one argument and are stripped.
func Arg(s string, n int) string {
	args := Fields(s)
	if n < 1 || n > len(args) {
		return ""
	}
	return args[n-1]
}

// Fields splits s into arguments, honouring double quotes.
func Fields(s string) []string {
	var (
		out    []string
		b      strings.Builder
		quoted bool
		inArg  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case !quoted && (r == ' ' || r == '\t'):
			if inArg {
				out = append(out, b.String())
				b.Reset()
				inArg = false
			}
		default:
			b.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		out = append(out, b.String())
	}
	return out
}

// Rest returns s with its first n arguments removed and the leading
// whitespace trimmed.
func Rest(s string, n int) string {
	rest := strings.TrimLeft(s, " \t")
	for i := 0; i < n && rest != ""; i++ {
		quoted := false
		end := len(rest)
		for j, r := range rest {
			if r == '"' {
				quoted = !quoted
			}
			if !quoted && (r == ' ' || r == '\t') {
				end = j
				break
			}
		}
		rest = strings.TrimLeft(rest[end:], " \t")
	}
	return rest
}

// Int parses s as an integer, returning def when s is not a number.
func Int(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// Float parses s as a float, returning def when s is not a number.
func Float(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

// IsNumber reports whether s is an integer or decimal number, with an
// optional leading sign.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Contains checks if a string slice contains a specific string.
func Contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
