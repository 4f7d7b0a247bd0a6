package schema

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var separatorRegex = regexp.MustCompile(`[^A-Za-z0-9]+`)

// NameConverter turns JSON keys into Java-style names.
type NameConverter interface {
	PascalCase(s string) string
	CamelCase(s string) string
}

// DefaultNames splits on any run of non-alphanumeric characters
// ("profit_rate", "user-name id") and joins the capitalized words.
type DefaultNames struct{}

// PascalCase converts s to PascalCase. Letters after the first of each
// word are left untouched, so "userID" becomes "UserID".
func (DefaultNames) PascalCase(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Fields(separatorRegex.ReplaceAllString(s, " ")) {
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}

// CamelCase converts s to camelCase.
func (n DefaultNames) CamelCase(s string) string {
	p := n.PascalCase(s)
	if p == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(p)
	return string(unicode.ToLower(r)) + p[size:]
}
