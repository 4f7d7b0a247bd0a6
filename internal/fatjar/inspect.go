package fatjar

import (
	"context"
	"fmt"
	"os"

	"github.com/f9-o/dtogen/pkg/errs"
)

// Listing describes the contents of an archive.
type Listing struct {
	Path        string            `json:"path"`
	Entries     []string          `json:"entries"`
	Files       int               `json:"files"`
	Directories int               `json:"directories"`
	Manifest    map[string]string `json:"manifest,omitempty"`
}

// Inspect lists the entries of the archive at path in stored order and
// parses its main manifest when present.
func Inspect(ctx context.Context, path string) (*Listing, error) {
	const op = "inspect"
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.New(errs.ErrPkgSource, op, err).WithResource(path)
	}
	if info.IsDir() {
		return nil, errs.Newf(errs.ErrPkgSource, op, "%s is a directory, not an archive", path).WithResource(path)
	}

	l := &Listing{Path: path}
	err = walkArchive(ctx, path, func(_ context.Context, e entry) error {
		l.Entries = append(l.Entries, e.name)
		if e.dir {
			l.Directories++
			return nil
		}
		l.Files++
		if e.name != ManifestPath || l.Manifest != nil {
			return nil
		}
		rc, err := e.open()
		if err != nil {
			return err
		}
		defer rc.Close()
		attrs, err := ParseManifest(rc)
		if err != nil {
			return fmt.Errorf("%s: %w", ManifestPath, err)
		}
		l.Manifest = attrs
		return nil
	})
	if err != nil {
		return nil, errs.New(errs.ErrPkgSource, op, err).WithResource(path)
	}
	return l, nil
}
