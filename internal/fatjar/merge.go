// Package fatjar assembles a self-contained executable archive from compiled
// application output and runtime dependency archives.
//
// Entries are written in assembly order: the generated manifest, then every
// application source, then every dependency in classpath order. When a path
// appears more than once the first entry written wins.
package fatjar

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/crypto/blake2b"

	v1 "github.com/f9-o/dtogen/api/v1"
	"github.com/f9-o/dtogen/pkg/errs"
	"github.com/f9-o/dtogen/pkg/javaid"
)

// ReproducibleTime is the timestamp given to every entry of a reproducible
// archive.
var ReproducibleTime = time.Date(1980, time.February, 1, 0, 0, 0, 0, time.UTC)

const generatedOrigin = "<generated>"

// Options configures Merge.
type Options struct {
	MainClass     string
	Output        string
	Application   []string
	Dependencies  []string
	Duplicates    v1.DuplicatesStrategy
	Exclude       []string
	Manifest      map[string]string
	CreatedBy     string
	Reproducible  bool
	SkipMainCheck bool
	// Workers bounds concurrent source indexing. Zero means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Duplicate records a dropped entry.
type Duplicate struct {
	Path        string `json:"path"`
	KeptFrom    string `json:"kept_from"`
	DroppedFrom string `json:"dropped_from"`
	Identical   bool   `json:"identical"`
}

// Report summarises a finished merge.
type Report struct {
	Output      string        `json:"output"`
	MainClass   string        `json:"main_class"`
	Sources     []Source      `json:"sources"`
	Entries     int           `json:"entries"`
	Files       int           `json:"files"`
	Directories int           `json:"directories"`
	Excluded    int           `json:"excluded"`
	Skipped     []string      `json:"skipped,omitempty"`
	Duplicates  []Duplicate   `json:"duplicates,omitempty"`
	SHA         string        `json:"sha"`
	Duration    time.Duration `json:"duration"`
}

type origin struct {
	source string
	digest []byte
}

type merger struct {
	opts      Options
	log       *slog.Logger
	report    *Report
	written   map[string]origin
	mainEntry string
	mainFound bool
}

// Merge writes the fat archive described by opts. On any failure the
// partially written output is removed and no file is left at opts.Output.
func Merge(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	sources, skipped, err := opts.sources()
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		log.Debug("classpath entry skipped", "path", s)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	indexes, err := buildIndex(ctx, sources, workers)
	if err != nil {
		return nil, err
	}

	m := &merger{
		opts: opts,
		log:  log,
		report: &Report{
			Output:    opts.Output,
			MainClass: opts.MainClass,
			Sources:   sources,
			Skipped:   skipped,
		},
		written:   make(map[string]origin),
		mainEntry: javaid.ClassFilePath(opts.MainClass),
	}
	if err := m.write(ctx, indexes); err != nil {
		return nil, err
	}
	m.report.Duration = time.Since(start)
	log.Debug("archive written",
		"output", opts.Output,
		"entries", m.report.Entries,
		"duplicates", len(m.report.Duplicates),
		"duration", m.report.Duration,
	)
	return m.report, nil
}

func (o *Options) validate() error {
	const op = "package.validate"
	if strings.TrimSpace(o.MainClass) == "" {
		return errs.Newf(errs.ErrValidation, op, "main class is required").
			WithAdvice("pass --main-class or set package.main_class in dtogen.yaml")
	}
	if !javaid.IsQualifiedName(o.MainClass) {
		return errs.Newf(errs.ErrValidation, op, "main class %q is not a valid qualified Java name", o.MainClass)
	}
	if strings.TrimSpace(o.Output) == "" {
		return errs.Newf(errs.ErrValidation, op, "output path is required").
			WithAdvice("pass --out or set package.out in dtogen.yaml")
	}
	if len(o.Application) == 0 && !o.SkipMainCheck {
		return errs.Newf(errs.ErrValidation, op, "no application output given").
			WithAdvice("pass --classes with the compiled application directory or archive")
	}
	strategy, err := v1.ParseDuplicatesStrategy(string(o.Duplicates))
	if err != nil {
		return errs.New(errs.ErrValidation, op, err)
	}
	o.Duplicates = strategy
	for _, p := range o.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errs.Newf(errs.ErrValidation, op, "invalid exclude pattern %q", p)
		}
	}
	for name, value := range o.Manifest {
		if err := validateAttr(name, value); err != nil {
			return errs.New(errs.ErrValidation, op, err)
		}
	}
	return nil
}

// sources resolves application and dependency paths into the assembly
// order. Dependencies whose name does not end in "jar" are skipped.
func (o Options) sources() ([]Source, []string, error) {
	const op = "package.sources"
	out, err := filepath.Abs(o.Output)
	if err != nil {
		return nil, nil, errs.New(errs.ErrValidation, op, err)
	}

	var sources []Source
	var skipped []string
	for _, p := range o.Application {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, errs.Newf(errs.ErrPkgSource, op, "application output: %w", err).
				WithResource(p).
				WithAdvice("compile the application before packaging")
		}
		if info.IsDir() && within(p, out) {
			return nil, nil, errs.Newf(errs.ErrValidation, op, "output %s is inside application output %s", o.Output, p)
		}
		sources = append(sources, Source{Path: p, Role: RoleApplication})
	}

	for _, p := range o.Dependencies {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, errs.Newf(errs.ErrPkgSource, op, "dependency: %w", err).WithResource(p)
		}
		if !info.IsDir() {
			if !isJar(info.Name()) {
				skipped = append(skipped, p)
				continue
			}
			sources = append(sources, Source{Path: p, Role: RoleDependency})
			continue
		}
		children, err := os.ReadDir(p)
		if err != nil {
			return nil, nil, errs.Newf(errs.ErrPkgSource, op, "dependency directory: %w", err).WithResource(p)
		}
		for _, c := range children {
			child := filepath.Join(p, c.Name())
			if c.IsDir() {
				continue
			}
			if !isJar(c.Name()) {
				skipped = append(skipped, child)
				continue
			}
			if abs, err := filepath.Abs(child); err == nil && abs == out {
				continue
			}
			sources = append(sources, Source{Path: child, Role: RoleDependency})
		}
	}
	return sources, skipped, nil
}

func isJar(name string) bool {
	return strings.HasSuffix(name, "jar")
}

// within reports whether target lies inside dir.
func within(dir, target string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(abs, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m *merger) write(ctx context.Context, indexes []*index) error {
	const op = "package.write"
	dir := filepath.Dir(m.opts.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(dir)
	}
	tmp, err := os.CreateTemp(dir, ".dtogen-*.tmp")
	if err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(dir)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	sum, err := blake2b.New256(nil)
	if err != nil {
		return errs.New(errs.ErrInternal, op, err)
	}
	zw := zip.NewWriter(io.MultiWriter(tmp, sum))

	if err := m.writeManifest(zw); err != nil {
		return err
	}
	for _, idx := range indexes {
		if err := m.copySource(ctx, zw, idx); err != nil {
			return err
		}
	}

	if !m.opts.SkipMainCheck && !m.mainFound {
		return errs.Newf(errs.ErrPkgEntryPoint, op, "entry point %s not found in application output (expected %s)",
			m.opts.MainClass, m.mainEntry).
			WithAdvice("check --main-class and that --classes points at the compiled output")
	}

	if err := zw.Close(); err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(m.opts.Output)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(m.opts.Output)
	}
	if err := tmp.Close(); err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(m.opts.Output)
	}
	if err := os.Rename(tmp.Name(), m.opts.Output); err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(m.opts.Output)
	}
	committed = true
	m.report.SHA = hex.EncodeToString(sum.Sum(nil))
	return nil
}

func (m *merger) writeManifest(zw *zip.Writer) error {
	manifest := BuildManifest(m.opts.MainClass, m.opts.CreatedBy, m.opts.Manifest)
	dirEntry := entry{name: manifestDir, dir: true, mode: fs.ModeDir | 0o755, modTime: time.Now()}
	if err := m.writeEntry(zw, manifestDir, dirEntry, Source{Path: generatedOrigin}); err != nil {
		return err
	}
	fileEntry := entry{
		name:    ManifestPath,
		mode:    0o644,
		modTime: time.Now(),
		open:    func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(manifest)), nil },
	}
	return m.writeEntry(zw, ManifestPath, fileEntry, Source{Path: generatedOrigin})
}

func (m *merger) copySource(ctx context.Context, zw *zip.Writer, idx *index) error {
	src := idx.source
	err := src.walk(ctx, func(ctx context.Context, e entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := entryName(e.name, e.dir)
		if err != nil {
			return errs.New(errs.ErrPkgEntryName, "package.merge", err).WithResource(src.Path)
		}
		if name == "" {
			return nil
		}
		if m.excluded(name) {
			m.report.Excluded++
			return nil
		}
		if prev, ok := m.written[name]; ok {
			return m.duplicate(name, prev, idx)
		}
		return m.writeEntry(zw, name, e, src)
	})
	if err != nil {
		return sourceError(src, err)
	}
	return nil
}

func (m *merger) excluded(name string) bool {
	bare := strings.TrimSuffix(name, "/")
	for _, p := range m.opts.Exclude {
		if ok, _ := doublestar.Match(p, bare); ok {
			return true
		}
	}
	return false
}

// duplicate applies the duplicates strategy to a later entry for name.
// Directories and the generated manifest never count as collisions.
func (m *merger) duplicate(name string, prev origin, idx *index) error {
	if strings.HasSuffix(name, "/") {
		return nil
	}
	if name == ManifestPath && prev.source == generatedOrigin {
		m.log.Debug("dependency manifest dropped", "source", idx.source.Path)
		return nil
	}

	d := Duplicate{Path: name, KeptFrom: prev.source, DroppedFrom: idx.source.Path}
	if sum, ok := idx.digests[name]; ok {
		d.Identical = bytes.Equal(sum, prev.digest)
	}
	m.report.Duplicates = append(m.report.Duplicates, d)

	switch m.opts.Duplicates {
	case v1.DuplicatesFail:
		return errs.Newf(errs.ErrPkgDuplicate, "package.merge", "duplicate entry %s, already written from %s", name, prev.source).
			WithResource(idx.source.Path).
			WithAdvice("use --duplicates exclude|warn or add an --exclude pattern for this path")
	case v1.DuplicatesWarn:
		m.log.Warn("duplicate entry dropped",
			"path", name,
			"kept_from", d.KeptFrom,
			"dropped_from", d.DroppedFrom,
			"identical", d.Identical,
		)
	default:
		m.log.Debug("duplicate entry dropped", "path", name, "dropped_from", d.DroppedFrom)
	}
	return nil
}

func (m *merger) writeEntry(zw *zip.Writer, name string, e entry, src Source) error {
	const op = "package.write"
	mode := e.mode
	modTime := e.modTime
	if m.opts.Reproducible {
		modTime = ReproducibleTime
		mode = 0o644
	}
	if e.dir {
		mode = fs.ModeDir | mode.Perm()
		if m.opts.Reproducible {
			mode = fs.ModeDir | 0o755
		}
	}

	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modTime}
	if e.dir {
		hdr.Method = zip.Store
	}
	hdr.SetMode(mode)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return errs.New(errs.ErrPkgWrite, op, err).WithResource(name)
	}
	m.report.Entries++
	if e.dir {
		m.report.Directories++
		m.written[name] = origin{source: src.Path}
		return nil
	}

	rc, err := e.open()
	if err != nil {
		return errs.New(errs.ErrPkgSource, op, err).WithResource(src.Path)
	}
	defer rc.Close()
	h, err := blake2b.New256(nil)
	if err != nil {
		return errs.New(errs.ErrInternal, op, err)
	}
	if _, err := io.Copy(io.MultiWriter(w, h), rc); err != nil {
		return errs.Newf(errs.ErrPkgWrite, op, "copy %s: %w", name, err).WithResource(src.Path)
	}

	m.report.Files++
	m.written[name] = origin{source: src.Path, digest: h.Sum(nil)}
	if src.Role == RoleApplication && name == m.mainEntry {
		m.mainFound = true
	}
	return nil
}

// sourceError attaches src to err unless err is a cancellation or already
// coded.
func sourceError(src Source, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if e := errs.As(err); e != nil {
		return e
	}
	return errs.Newf(errs.ErrPkgSource, "package.read", "read %s: %w", src.Role, err).WithResource(src.Path)
}
