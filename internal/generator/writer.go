package generator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/f9-o/dtogen/pkg/errs"
)

// Status is what writing a planned file would do.
type Status string

const (
	StatusCreate    Status = "create"
	StatusUpdate    Status = "update"
	StatusUnchanged Status = "unchanged"
)

// PlannedFile is a generated file compared with what is on disk.
type PlannedFile struct {
	Path    string
	Status  Status
	Current string // existing content, empty on create
	Source  string
}

// Patch returns a line diff from the current content to the new one. Added
// lines start with "+", removed lines with "-" and kept lines with a space.
func (p PlannedFile) Patch() string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(p.Current, p.Source)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// Writer places generated files under an output directory.
type Writer struct {
	OutDir string
	// PackageDirs nests files in package directories (com/example/dto/...).
	PackageDirs bool
}

// PrepareOutDir resolves path, creating it when missing, and checks that it
// is a writable directory.
func PrepareOutDir(path string) (string, error) {
	const op = "generator.outdir"

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errs.New(errs.ErrGenOutDir, op, err).WithResource(path)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", errs.New(errs.ErrGenOutDir, op, err).WithResource(abs)
		}
	case err != nil:
		return "", errs.New(errs.ErrGenOutDir, op, err).WithResource(abs)
	case !info.IsDir():
		return "", errs.Newf(errs.ErrGenOutDir, op, "--out path is not a directory").WithResource(abs)
	}

	probe, err := os.CreateTemp(abs, ".dtogen-probe-*")
	if err != nil {
		return "", errs.Newf(errs.ErrGenOutDir, op, "--out path is not writable: %v", err).WithResource(abs)
	}
	probe.Close()
	_ = os.Remove(probe.Name())

	return abs, nil
}

// Path returns where f is written.
func (w *Writer) Path(f File) string {
	dir := w.OutDir
	if w.PackageDirs && f.Package != "" {
		dir = filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(f.Package, ".", "/")))
	}
	return filepath.Join(dir, f.Name())
}

// Plan compares files with the output directory without writing anything.
func (w *Writer) Plan(files []File) ([]PlannedFile, error) {
	plan := make([]PlannedFile, 0, len(files))
	for _, f := range files {
		p := PlannedFile{Path: w.Path(f), Source: f.Source, Status: StatusCreate}

		current, err := os.ReadFile(p.Path)
		switch {
		case err == nil:
			p.Current = string(current)
			p.Status = StatusUpdate
			if p.Current == p.Source {
				p.Status = StatusUnchanged
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, errs.New(errs.ErrGenWrite, "generator.plan", err).WithResource(p.Path)
		}
		plan = append(plan, p)
	}
	return plan, nil
}

// Apply writes every planned file that is not unchanged and returns how
// many were written.
func (w *Writer) Apply(plan []PlannedFile) (int, error) {
	written := 0
	for _, p := range plan {
		if p.Status == StatusUnchanged {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
			return written, errs.New(errs.ErrGenWrite, "generator.write", err).WithResource(p.Path)
		}
		if err := os.WriteFile(p.Path, []byte(p.Source), 0o644); err != nil {
			return written, errs.Newf(errs.ErrGenWrite, "generator.write",
				"failed to write Java source: %v", err).WithResource(p.Path)
		}
		written++
	}
	return written, nil
}

// WriteAll plans and applies files in one step.
func (w *Writer) WriteAll(files []File) ([]PlannedFile, int, error) {
	plan, err := w.Plan(files)
	if err != nil {
		return nil, 0, err
	}
	n, err := w.Apply(plan)
	return plan, n, err
}
