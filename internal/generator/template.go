// Package generator renders a model graph as Java source files and writes
// them to disk.
package generator

import "strings"

// Template substitutes ${name} placeholders in a pattern.
//
//   - A name missing from the variables is left as-is, placeholder included.
//   - A name mapped to "" renders as nothing.
//   - An unterminated "${" copies the rest of the pattern verbatim.
type Template struct {
	pattern string
}

// NewTemplate returns a Template for pattern.
func NewTemplate(pattern string) Template {
	return Template{pattern: pattern}
}

// Pattern returns the raw pattern.
func (t Template) Pattern() string { return t.pattern }

// Render returns the pattern with every known placeholder replaced.
func (t Template) Render(vars map[string]string) string {
	var b strings.Builder
	p := t.pattern

	for {
		start := strings.Index(p, "${")
		if start < 0 {
			b.WriteString(p)
			break
		}
		end := strings.IndexByte(p[start+2:], '}')
		if end < 0 {
			b.WriteString(p)
			break
		}
		end += start + 2

		b.WriteString(p[:start])
		name := p[start+2 : end]
		if v, ok := vars[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(p[start : end+1])
		}
		p = p[end+1:]
	}
	return b.String()
}
