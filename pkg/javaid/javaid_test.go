package javaid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidName(t *testing.T) {
	cases := map[string]bool{
		"WeatherApiResponse": true,
		"_private":           true,
		"$proxy":             true,
		"123Invalid":         false,
		"class":              false,
		"null":               false,
		"_":                  false,
		"has-dash":           false,
		"":                   false,
		"Über":               true,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidName(in), in)
	}
}

func TestIsQualifiedName(t *testing.T) {
	assert.True(t, IsQualifiedName("com.org.example.entity"))
	assert.True(t, IsQualifiedName("Main"))
	assert.False(t, IsQualifiedName("com..example"))
	assert.False(t, IsQualifiedName("com.1abc"))
	assert.False(t, IsQualifiedName("com.class.api"))
	assert.False(t, IsQualifiedName(""))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "_1st", Sanitize("1st"))
	assert.Equal(t, "class_", Sanitize("class"))
	assert.Equal(t, "__", Sanitize(""))
	assert.Equal(t, "__", Sanitize("_"))
	assert.True(t, IsValidName(Sanitize("")))
	assert.Equal(t, "name", Sanitize("name"))
}

func TestClassFilePath(t *testing.T) {
	assert.Equal(t, "org/example/Main.class", ClassFilePath("org.example.Main"))
	assert.Equal(t, "Main.class", ClassFilePath("Main"))
}
