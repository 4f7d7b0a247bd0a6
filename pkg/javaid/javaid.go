// Package javaid validates and sanitizes Java identifiers and qualified names.
package javaid

import (
	"strings"
	"unicode"
)

// keywords holds reserved words and literals that cannot be used as identifiers.
var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}

// IsKeyword returns true if s is a reserved Java keyword or literal.
func IsKeyword(s string) bool {
	return keywords[s]
}

// IsIdentifier returns true if s is lexically a Java identifier.
// Keywords pass this check; combine with IsKeyword to reject them.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

// IsValidName returns true if s can name a class, field or package segment.
func IsValidName(s string) bool {
	return IsIdentifier(s) && !IsKeyword(s)
}

// IsQualifiedName returns true if every dot-separated segment of s is a valid name.
func IsQualifiedName(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if !IsValidName(seg) {
			return false
		}
	}
	return true
}

// Sanitize turns s into a usable identifier: a leading digit or an empty
// string gains a "_" prefix, a keyword (including a lone "_") gains a "_"
// suffix.
func Sanitize(s string) string {
	if s == "" || !isIdentStart([]rune(s)[0]) {
		s = "_" + s
	}
	if IsKeyword(s) {
		s += "_"
	}
	return s
}

// ClassFilePath maps a qualified class name to its path inside an archive,
// e.g. org.example.Main → org/example/Main.class.
func ClassFilePath(qualified string) string {
	return strings.ReplaceAll(qualified, ".", "/") + ".class"
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
