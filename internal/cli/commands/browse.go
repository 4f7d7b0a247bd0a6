package commands

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/internal/fatjar"
	"github.com/f9-o/dtogen/internal/tui"
)

// runBrowser starts the interactive browser. Replaced in tests.
var runBrowser = tui.Run

// kvBlock renders aligned "key  value" lines, skipping empty values.
func kvBlock(pairs ...string) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", pairs[i], pairs[i+1])
	}
	w.Flush()
	return b.String()
}

func historyItems(gens []v1.GenerationRecord, pkgs []v1.PackageRecord) []tui.Item {
	type dated struct {
		at   time.Time
		item tui.Item
	}
	all := make([]dated, 0, len(gens)+len(pkgs))
	for _, r := range gens {
		all = append(all, dated{r.StartedAt, tui.Item{
			Title: "generate " + r.RootClass,
			OK:    r.Result == v1.ResultSuccess,
			Detail: kvBlock(
				"ID", r.ID,
				"Started", r.StartedAt.Local().Format(time.DateTime),
				"Input", r.Input,
				"Root class", r.RootClass,
				"Package", r.Package,
				"Output", r.Out,
				"Classes", fmt.Sprint(r.Classes),
				"Written", fmt.Sprint(r.Written),
				"Unchanged", fmt.Sprint(r.Unchanged),
				"Duration", (time.Duration(r.DurationMS) * time.Millisecond).String(),
				"Result", string(r.Result),
				"Error", r.Error,
			),
		}})
	}
	for _, r := range pkgs {
		all = append(all, dated{r.StartedAt, tui.Item{
			Title: "package " + path.Base(r.Out),
			OK:    r.Result == v1.ResultSuccess,
			Detail: kvBlock(
				"ID", r.ID,
				"Started", r.StartedAt.Local().Format(time.DateTime),
				"Output", r.Out,
				"Main class", r.MainClass,
				"Sources", fmt.Sprint(r.Sources),
				"Entries", fmt.Sprint(r.Entries),
				"Duplicates", fmt.Sprint(r.Duplicates),
				"Excluded", fmt.Sprint(r.Excluded),
				"BLAKE2b-256", r.Digest,
				"Duration", (time.Duration(r.DurationMS) * time.Millisecond).String(),
				"Result", string(r.Result),
				"Error", r.Error,
			),
		}})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].at.After(all[j].at) })

	items := make([]tui.Item, len(all))
	for i, d := range all {
		items[i] = d.item
	}
	return items
}

// inspectItems groups archive entries by parent directory, after a first item
// holding the manifest.
func inspectItems(l *fatjar.Listing) []tui.Item {
	manifest := "(no manifest)"
	if l.Manifest != nil {
		names := make([]string, 0, len(l.Manifest))
		for k := range l.Manifest {
			names = append(names, k)
		}
		sort.Strings(names)
		pairs := make([]string, 0, 2*len(names))
		for _, k := range names {
			pairs = append(pairs, k+":", l.Manifest[k])
		}
		manifest = kvBlock(pairs...)
	}
	items := []tui.Item{{Title: fatjar.ManifestPath, OK: l.Manifest != nil, Detail: manifest}}

	var dirs []string
	files := map[string][]string{}
	for _, name := range l.Entries {
		if strings.HasSuffix(name, "/") {
			continue
		}
		dir := path.Dir(name) + "/"
		if dir == "./" {
			dir = "/"
		}
		if _, ok := files[dir]; !ok {
			dirs = append(dirs, dir)
		}
		files[dir] = append(files[dir], path.Base(name))
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		items = append(items, tui.Item{
			Title:  fmt.Sprintf("%s (%d)", dir, len(files[dir])),
			OK:     true,
			Detail: strings.Join(files[dir], "\n"),
		})
	}
	return items
}
