package fatjar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	got := BuildManifest("org.example.Main", "dtogen 1.2.0", map[string]string{
		"Implementation-Version": "1.2.0",
		"Class-Path":             "lib/a.jar",
		"main-class":             "org.other.Main",
	})

	want := "Manifest-Version: 1.0\r\n" +
		"Main-Class: org.example.Main\r\n" +
		"Created-By: dtogen 1.2.0\r\n" +
		"Class-Path: lib/a.jar\r\n" +
		"Implementation-Version: 1.2.0\r\n" +
		"\r\n"
	assert.Equal(t, want, string(got))
}

func TestBuildManifestWrapsLongLines(t *testing.T) {
	long := strings.Repeat("abcdefghij", 20)
	got := BuildManifest("a.B", "", map[string]string{"X-Long": long})

	lines := strings.Split(strings.TrimSuffix(string(got), "\r\n\r\n"), "\r\n")
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), maxLineBytes, "line %q", l)
	}
	assert.True(t, strings.HasPrefix(lines[3], " "))

	attrs, err := ParseManifest(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, long, attrs["X-Long"])
	assert.Equal(t, "a.B", attrs["Main-Class"])
	assert.NotContains(t, attrs, "Created-By")
}

func TestBuildManifestKeepsMultibyteRunes(t *testing.T) {
	value := strings.Repeat("é", 60)
	got := BuildManifest("a.B", "", map[string]string{"X-Accent": value})

	attrs, err := ParseManifest(bytes.NewReader(got))
	require.NoError(t, err)
	assert.Equal(t, value, attrs["X-Accent"])
}

func TestParseManifest(t *testing.T) {
	attrs, err := ParseManifest(strings.NewReader("Manifest-Version: 1.0\nMain-Class: a.B\n\nName: a/B.class\nSHA-256-Digest: xyz\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Manifest-Version": "1.0", "Main-Class": "a.B"}, attrs)

	_, err = ParseManifest(strings.NewReader(" orphan\n"))
	assert.Error(t, err)

	_, err = ParseManifest(strings.NewReader("no separator\n"))
	assert.Error(t, err)
}

func TestValidateAttr(t *testing.T) {
	assert.NoError(t, validateAttr("Implementation-Title", "dtogen"))
	assert.Error(t, validateAttr("Bad Name", "x"))
	assert.Error(t, validateAttr("-Leading", "x"))
	assert.Error(t, validateAttr("X-Ok", "two\nlines"))
}
