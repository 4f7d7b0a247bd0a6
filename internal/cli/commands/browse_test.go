package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/core/state"
	"github.com/f9-o/dtogen/internal/fatjar"
	"github.com/f9-o/dtogen/internal/tui"
	"github.com/f9-o/dtogen/pkg/pprint"
)

func TestHistoryItemsNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gens := []v1.GenerationRecord{
		{ID: "g1", RootClass: "Weather", Classes: 3, StartedAt: base, Result: v1.ResultSuccess},
	}
	pkgs := []v1.PackageRecord{
		{ID: "p1", Out: "build/libs/app-all.jar", MainClass: "com.example.Main", StartedAt: base.Add(time.Minute), Result: v1.ResultSuccess},
		{ID: "p0", Out: "build/libs/broken.jar", StartedAt: base.Add(-time.Minute), Result: v1.ResultFailure, Error: "no entry point"},
	}

	items := historyItems(gens, pkgs)
	require.Len(t, items, 3)
	assert.Equal(t, "package app-all.jar", items[0].Title)
	assert.Equal(t, "generate Weather", items[1].Title)
	assert.Equal(t, "package broken.jar", items[2].Title)
	assert.False(t, items[2].OK)
	assert.Contains(t, items[2].Detail, "no entry point")
	assert.Contains(t, items[0].Detail, "com.example.Main")
	assert.NotContains(t, items[0].Detail, "Error")
}

func TestInspectItemsGroupsByDirectory(t *testing.T) {
	l := &fatjar.Listing{
		Path: "app.jar",
		Entries: []string{
			"META-INF/", "META-INF/MANIFEST.MF",
			"com/", "com/example/", "com/example/Main.class", "com/example/Util.class",
			"README.txt",
		},
		Manifest: map[string]string{"Manifest-Version": "1.0", "Main-Class": "com.example.Main"},
	}

	items := inspectItems(l)
	require.Len(t, items, 4)
	assert.Equal(t, fatjar.ManifestPath, items[0].Title)
	assert.Contains(t, items[0].Detail, "com.example.Main")
	assert.Equal(t, "/ (1)", items[1].Title)
	assert.Equal(t, "META-INF/ (1)", items[2].Title)
	assert.Equal(t, "com/example/ (2)", items[3].Title)
	assert.Equal(t, "Main.class\nUtil.class", items[3].Detail)
}

func TestInspectItemsWithoutManifest(t *testing.T) {
	items := inspectItems(&fatjar.Listing{Path: "x.jar", Entries: []string{"a.txt"}})
	require.Len(t, items, 2)
	assert.False(t, items[0].OK)
	assert.Equal(t, "(no manifest)", items[0].Detail)
}

func TestHistoryTUIFlagOpensBrowser(t *testing.T) {
	db, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.PutGeneration(v1.GenerationRecord{RootClass: "Weather", StartedAt: time.Now(), Result: v1.ResultSuccess})
	require.NoError(t, err)

	var got tui.Config
	prev := runBrowser
	runBrowser = func(cfg tui.Config) error { got = cfg; return nil }
	defer func() { runBrowser = prev }()

	prevOut := pprint.Out
	pprint.Out = &bytes.Buffer{}
	defer func() { pprint.Out = prevOut }()

	cmd := NewHistoryCmd()
	cmd.SetArgs([]string{"--tui"})
	ctx := NewContext(context.Background(), &Runtime{State: db})
	require.NoError(t, cmd.ExecuteContext(ctx))

	assert.Equal(t, "History", got.Title)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "generate Weather", got.Items[0].Title)
}
