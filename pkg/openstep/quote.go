package openstep

import "strings"

// NeedsQuoting reports whether s must be written as a quoted string.
// Only non-empty strings made of alphanumerics, underscore, dollar,
// dot and slash may appear bare.
func NeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isBareChar(s[i]) {
			return true
		}
	}
	return false
}

func isBareChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '$' || c == '.' || c == '/':
		return true
	}
	return false
}

// Quote renders s in wire form: bare when the character set allows
// it, otherwise double-quoted with backslash escapes for quote,
// backslash, newline and tab.
func Quote(s string) string {
	if !NeedsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
