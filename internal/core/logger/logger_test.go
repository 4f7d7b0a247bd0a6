package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWritesStderrAndFile(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	logFile := filepath.Join(dir, "logs", "dtogen.log")

	l, err := New(Options{Level: "info", Format: "json", File: logFile, Stderr: &stderr})
	require.NoError(t, err)
	defer l.Close()

	l.Debug("hidden")
	l.Info("packaged", "entries", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &rec))
	assert.Equal(t, "packaged", rec["msg"])
	assert.EqualValues(t, 12, rec["entries"])

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "packaged")
	assert.NotContains(t, string(data), "hidden")
}

func TestPrettyFormatFansOut(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	logFile := filepath.Join(dir, "dtogen.log")

	l, err := New(Options{Format: "pretty", File: logFile, Stderr: &stderr, Debug: true})
	require.NoError(t, err)
	defer l.Close()

	l.With("run", "r1").Debug("indexing sources", "count", 3)

	assert.Contains(t, stderr.String(), "indexing sources")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run=r1")
	assert.Contains(t, string(data), "count=3")
}

func TestAudit(t *testing.T) {
	home := t.TempDir()
	l, err := New(Options{Home: home, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)

	l.Audit(AuditEntry{Op: "package", User: "ci", Target: "build/app.jar", Result: "success"})
	l.Audit(AuditEntry{Op: "generate", Result: "failure", Meta: map[string]string{"code": "ERR-INPUT-003"}})
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(home, "audit.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first AuditEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "package", first.Op)
	assert.Equal(t, "ci", first.User)
	assert.False(t, first.Timestamp.IsZero())
	assert.Contains(t, lines[1], "ERR-INPUT-003")
}
