package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/pprint"
)

// sandbox isolates a CLI run: its own home, working directory and output
// buffers.
func sandbox(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("DTOGEN_HOME", filepath.Join(dir, ".dtogen"))

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })

	out = &bytes.Buffer{}
	prevOut, prevErr := pprint.Out, pprint.ErrOut
	pprint.Out, pprint.ErrOut = out, &bytes.Buffer{}
	t.Cleanup(func() { pprint.Out, pprint.ErrOut = prevOut, prevErr })
	return dir, out
}

func run(args ...string) error {
	return Run(context.Background(), args)
}

const weatherJSON = `{
  "city": "Seoul",
  "temp_c": 21.5,
  "location": {"lat": 37.5, "lon": 127.0},
  "forecasts": [{"day": "mon", "high": 24}, {"day": "tue", "high": 22, "rain": true}]
}`

func TestGenerateWritesSources(t *testing.T) {
	dir, out := sandbox(t)
	require.NoError(t, os.WriteFile("weather.json", []byte(weatherJSON), 0o644))

	err := run("generate", "--input", "weather.json", "--root-class", "Weather",
		"--package", "com.example.dto", "--out", "dto", "--json")
	require.NoError(t, err)

	var summary struct {
		Classes []string `json:"classes"`
		Written int      `json:"written"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, []string{
		"com.example.dto.Weather",
		"com.example.dto.Location",
		"com.example.dto.Forecast",
	}, summary.Classes)
	assert.Equal(t, 3, summary.Written)

	src, err := os.ReadFile(filepath.Join(dir, "dto", "Forecast.java"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "private Boolean rain;")
	assert.Contains(t, string(src), "/** May be absent or null. */")

	out.Reset()
	require.NoError(t, run("history", "generate", "--json"))
	var hist struct {
		Generations []struct {
			RootClass string `json:"root_class"`
			Classes   int    `json:"classes"`
			Result    string `json:"result"`
		} `json:"generations"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &hist))
	require.Len(t, hist.Generations, 1)
	assert.Equal(t, "Weather", hist.Generations[0].RootClass)
	assert.Equal(t, 3, hist.Generations[0].Classes)
	assert.Equal(t, "success", hist.Generations[0].Result)

	audit, err := os.ReadFile(filepath.Join(dir, ".dtogen", "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(audit), `"op":"generate"`)
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	dir, out := sandbox(t)
	require.NoError(t, os.WriteFile("weather.json", []byte(weatherJSON), 0o644))

	err := run("generate", "--input", "weather.json", "--root-class", "Weather",
		"--package", "com.example.dto", "--out", "dto", "--inner-classes", "TRUE", "--dry-run")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "dto"))
	assert.Contains(t, out.String(), "Weather.java")
	assert.Contains(t, out.String(), "public static class Location")
}

func TestGenerateUsesProjectConfig(t *testing.T) {
	dir, _ := sandbox(t)
	require.NoError(t, os.WriteFile("weather.json", []byte(weatherJSON), 0o644))
	require.NoError(t, os.WriteFile("dtogen.yaml", []byte(`generate:
  input: weather.json
  root_class: Weather
  package: org.sample
  out: gen
  inner_classes: true
`), 0o644))

	require.NoError(t, run("generate"))
	entries, err := os.ReadDir(filepath.Join(dir, "gen"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Weather.java", entries[0].Name())
}

func TestGenerateValidation(t *testing.T) {
	sandbox(t)
	require.NoError(t, os.WriteFile("weather.json", []byte(weatherJSON), 0o644))
	base := []string{"generate", "--input", "weather.json", "--out", "dto"}

	cases := map[string][]string{
		"missing root class":    {"--package", "a.b"},
		"keyword root class":    {"--root-class", "class", "--package", "a.b"},
		"digit root class":      {"--root-class", "1Weather", "--package", "a.b"},
		"empty package segment": {"--root-class", "Weather", "--package", "a..b"},
		"keyword package":       {"--root-class", "Weather", "--package", "com.int.dto"},
		"bad inner classes":     {"--root-class", "Weather", "--package", "a.b", "--inner-classes", "yes"},
	}
	for name, extra := range cases {
		t.Run(name, func(t *testing.T) {
			err := run(append(append([]string(nil), base...), extra...)...)
			require.Error(t, err)
			assert.True(t, errs.IsCode(err, errs.ErrValidation), "got %v", err)
			assert.Equal(t, errs.ExitUser, errs.ExitCode(err))
		})
	}
}

func TestGenerateInputErrors(t *testing.T) {
	sandbox(t)
	require.NoError(t, os.WriteFile("broken.json", []byte(`{"a": `), 0o644))
	require.NoError(t, os.WriteFile("list.json", []byte(`[1, 2]`), 0o644))
	args := func(input string) []string {
		return []string{"generate", "--input", input, "--root-class", "R", "--package", "p", "--out", "o"}
	}

	err := run(args("missing.json")...)
	assert.True(t, errs.IsCode(err, errs.ErrInputNotFound))

	err = run(args("broken.json")...)
	assert.True(t, errs.IsCode(err, errs.ErrInputSyntax))

	err = run(args("list.json")...)
	assert.True(t, errs.IsCode(err, errs.ErrInputRoot))
	assert.Equal(t, errs.ExitUser, errs.ExitCode(err))
}

func writeLib(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestPackageAndInspect(t *testing.T) {
	dir, out := sandbox(t)
	classes := filepath.Join(dir, "classes", "org", "example")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classes, "Main.class"), []byte("cafebabe"), 0o644))
	require.NoError(t, os.MkdirAll("libs", 0o755))
	writeLib(t, filepath.Join("libs", "jackson.jar"), map[string]string{
		"META-INF/MANIFEST.MF":             "Manifest-Version: 1.0\r\nMain-Class: com.fasterxml.Other\r\n\r\n",
		"com/fasterxml/jackson/Core.class": "core",
	})

	err := run("package", "--main-class", "org.example.Main", "--classes", "classes",
		"--lib", "libs", "--out", "build/app.jar", "--manifest", "Implementation-Version=2.0", "--json")
	require.NoError(t, err)

	var report struct {
		Entries int    `json:"entries"`
		SHA     string `json:"sha"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Positive(t, report.Entries)
	assert.Len(t, report.SHA, 64)

	out.Reset()
	require.NoError(t, run("inspect", "build/app.jar", "--json"))
	var listing struct {
		Entries  []string          `json:"entries"`
		Manifest map[string]string `json:"manifest"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &listing))
	assert.Equal(t, "org.example.Main", listing.Manifest["Main-Class"])
	assert.Equal(t, "2.0", listing.Manifest["Implementation-Version"])
	assert.Equal(t, "dtogen dev", listing.Manifest["Created-By"])
	assert.Contains(t, listing.Entries, "com/fasterxml/jackson/Core.class")

	out.Reset()
	require.NoError(t, run("history", "package", "--json"))
	assert.Contains(t, out.String(), `"main_class": "org.example.Main"`)
}

func TestPackageFlagValuesKeepCommas(t *testing.T) {
	dir, out := sandbox(t)
	classes := filepath.Join(dir, "classes,v1", "org", "example")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classes, "Main.class"), []byte("cafebabe"), 0o644))
	writeLib(t, "signed.jar", map[string]string{
		"sig/a.KEY":  "a",
		"sig/b.CERT": "b",
		"sig/c.TXT":  "c",
	})

	err := run("package", "--main-class", "org.example.Main", "--classes", "classes,v1",
		"--lib", "signed.jar", "--exclude", "sig/*.{KEY,CERT}", "--out", "app.jar",
		"--manifest", "X-Targets=linux,darwin", "--json")
	require.NoError(t, err)

	var report struct {
		Excluded int `json:"excluded"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Excluded)

	out.Reset()
	require.NoError(t, run("inspect", "app.jar", "--json"))
	var listing struct {
		Entries  []string          `json:"entries"`
		Manifest map[string]string `json:"manifest"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &listing))
	assert.Contains(t, listing.Entries, "sig/c.TXT")
	assert.NotContains(t, listing.Entries, "sig/a.KEY")
	assert.Equal(t, "linux,darwin", listing.Manifest["X-Targets"])
}

func TestPackageRejectsMalformedManifestFlag(t *testing.T) {
	sandbox(t)
	err := run("package", "--main-class", "org.example.Main", "--out", "app.jar", "--manifest", "NoEquals")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrValidation))
}

func TestPackageMissingEntryPoint(t *testing.T) {
	dir, _ := sandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "classes"), 0o755))

	err := run("package", "--main-class", "org.example.Main", "--classes", "classes", "--out", "app.jar")
	require.Error(t, err)
	assert.True(t, errs.IsCode(err, errs.ErrPkgEntryPoint))
	assert.NoFileExists(t, filepath.Join(dir, "app.jar"))
}

func TestUnknownFlagIsUserError(t *testing.T) {
	sandbox(t)
	err := run("generate", "--bogus")
	require.Error(t, err)
	assert.Equal(t, errs.ExitUser, errs.ExitCode(err))
}

func TestVersionJSON(t *testing.T) {
	_, out := sandbox(t)
	require.NoError(t, run("version", "--json"))

	var info map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "dev", info["version"])
}

func TestInitWritesTemplate(t *testing.T) {
	dir, _ := sandbox(t)
	require.NoError(t, run("init", "--path", "proj"))
	assert.FileExists(t, filepath.Join(dir, "proj", "dtogen.yaml"))

	err := run("init", "--path", "proj")
	assert.True(t, errs.IsCode(err, errs.ErrValidation))
}
