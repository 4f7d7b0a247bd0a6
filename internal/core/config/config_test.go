package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/dtogen/api/v1"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DTOGEN_HOME", filepath.Join(dir, "home"))
	chdir(t, dir)
	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, string(v1.DuplicatesExclude), cfg.Package.Duplicates)
	assert.True(t, cfg.Generate.Annotations)
	assert.True(t, cfg.Generate.Accessors)
	assert.False(t, cfg.Generate.InnerClasses)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadTemplateFromParentDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(DefaultConfigTemplate), 0o644))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, sub)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Response", cfg.Generate.RootClass)
	assert.Equal(t, "com.example.dto", cfg.Generate.Package)
	assert.Equal(t, "org.example.Main", cfg.Package.MainClass)
	assert.Equal(t, []string{filepath.Join(dir, "build/classes/java/main")}, cfg.Package.Classes)
	assert.Contains(t, cfg.Package.Exclude, "META-INF/*.SF")
	assert.Equal(t, filepath.Join(dir, ProjectFile), cfg.File)
}

func TestLoadExplicitAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package:\n  out: ${OUT_DIR}/app.jar\n  duplicates: warn\n"), 0o644))
	t.Setenv("OUT_DIR", "/tmp/build")
	t.Setenv("DTOGEN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/build/app.jar", cfg.Package.Out)
	assert.Equal(t, "warn", cfg.Package.Duplicates)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := isolate(t)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("package:\n  duplicates: merge\n"), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "package.duplicates")

	require.NoError(t, os.WriteFile(bad, []byte("log:\n  format: xml\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "log.format")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
