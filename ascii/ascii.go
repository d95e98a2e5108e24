// Package ascii provides byte classification predicates for grammars built
// with package parse.
package ascii

func IsDigit(c byte) bool  { return c >= '0' && c <= '9' }
func IsUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func IsLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func IsAlpha(c byte) bool  { return IsUpper(c) || IsLower(c) }
func IsAlnum(c byte) bool  { return IsAlpha(c) || IsDigit(c) }
func IsXDigit(c byte) bool { return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

// IsSpace reports space, tab, newline, vertical tab, form feed and carriage return.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsPunct reports printable ASCII that is neither alphanumeric nor space.
func IsPunct(c byte) bool {
	return c > ' ' && c < 0x7f && !IsAlnum(c)
}

// IsIdent reports bytes that may continue an identifier.
func IsIdent(c byte) bool {
	return IsAlnum(c) || c == '_'
}
