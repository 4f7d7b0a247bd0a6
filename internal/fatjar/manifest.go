package fatjar

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ManifestPath is the archive path of the main manifest.
const ManifestPath = "META-INF/MANIFEST.MF"

const manifestDir = "META-INF/"

// maxLineBytes is the longest manifest line allowed, terminator excluded.
const maxLineBytes = 72

var attrNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,69}$`)

// reserved attributes are always written from Options and never from extras.
var reserved = []string{"Manifest-Version", "Main-Class", "Created-By"}

// BuildManifest renders the main manifest section. Main-Class is always the
// given entry point; extras naming a reserved attribute are ignored.
func BuildManifest(mainClass, createdBy string, extra map[string]string) []byte {
	var b bytes.Buffer
	writeAttr(&b, "Manifest-Version", "1.0")
	writeAttr(&b, "Main-Class", mainClass)
	if createdBy != "" {
		writeAttr(&b, "Created-By", createdBy)
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		if isReserved(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeAttr(&b, name, extra[name])
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

func isReserved(name string) bool {
	for _, r := range reserved {
		if strings.EqualFold(r, name) {
			return true
		}
	}
	return false
}

// writeAttr writes "name: value" wrapped at maxLineBytes. Continuation lines
// start with a single space and never split a UTF-8 sequence.
func writeAttr(b *bytes.Buffer, name, value string) {
	line := name + ": " + value
	limit := maxLineBytes
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineBytes - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// validateAttr checks an extra manifest attribute supplied by the user.
func validateAttr(name, value string) error {
	if !attrNameRe.MatchString(name) {
		return fmt.Errorf("manifest attribute name %q is invalid", name)
	}
	if strings.ContainsAny(value, "\r\n\x00") {
		return fmt.Errorf("manifest attribute %s contains a line break or NUL", name)
	}
	return nil
}

// ParseManifest reads the main section of a manifest. Continuation lines are
// joined onto the attribute they follow.
func ParseManifest(r io.Reader) (map[string]string, error) {
	attrs := make(map[string]string)
	sc := bufio.NewScanner(r)
	last := ""
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if last == "" {
				return nil, fmt.Errorf("manifest line %d: continuation without attribute", n)
			}
			attrs[last] += line[1:]
			continue
		}
		name, value, ok := strings.Cut(line, ": ")
		if !ok || name == "" {
			return nil, fmt.Errorf("manifest line %d: malformed attribute %q", n, line)
		}
		attrs[name] = value
		last = name
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}
