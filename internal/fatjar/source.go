package fatjar

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/mholt/archives"
)

// Role tells whether a source holds application output or a dependency.
type Role string

const (
	RoleApplication Role = "application"
	RoleDependency  Role = "dependency"
)

// Source is one packaging input: a directory of compiled output or an
// archive.
type Source struct {
	Path string `json:"path"`
	Role Role   `json:"role"`
}

// entry is a single file or directory read from a Source. Directory names
// end in "/".
type entry struct {
	name    string
	dir     bool
	mode    fs.FileMode
	modTime time.Time
	open    func() (io.ReadCloser, error)
}

type entryFunc func(ctx context.Context, e entry) error

// walk visits every entry of s. Directories are walked in lexical order,
// archives in stored order.
func (s Source) walk(ctx context.Context, fn entryFunc) error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return walkDir(ctx, s.Path, fn)
	}
	return walkArchive(ctx, s.Path, fn)
}

func walkDir(ctx context.Context, root string, fn entryFunc) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !d.IsDir() && !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		e := entry{
			name:    filepath.ToSlash(rel),
			dir:     d.IsDir(),
			mode:    info.Mode(),
			modTime: info.ModTime(),
		}
		if e.dir {
			e.name += "/"
		} else {
			e.open = func() (io.ReadCloser, error) { return os.Open(p) }
		}
		return fn(ctx, e)
	})
}

func walkArchive(ctx context.Context, archivePath string, fn entryFunc) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	format, _, err := archives.Identify(ctx, filepath.Base(archivePath), f)
	if err != nil {
		return fmt.Errorf("identify archive: %w", err)
	}
	ex, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("%s files cannot be read as archives", format.Extension())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	return ex.Extract(ctx, f, func(ctx context.Context, fi archives.FileInfo) error {
		if !fi.IsDir() && !fi.Mode().IsRegular() {
			return nil
		}
		e := entry{
			name:    fi.NameInArchive,
			dir:     fi.IsDir(),
			mode:    fi.Mode(),
			modTime: fi.ModTime(),
		}
		if e.dir {
			if !strings.HasSuffix(e.name, "/") {
				e.name += "/"
			}
		} else {
			e.open = func() (io.ReadCloser, error) { return fi.Open() }
		}
		return fn(ctx, e)
	})
}

// entryName normalises a raw entry name to a clean slash path. It returns ""
// for names that denote the archive root, and an error for names that
// would escape it.
func entryName(raw string, dir bool) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty entry name")
	}
	if strings.ContainsRune(raw, 0) {
		return "", fmt.Errorf("entry name %q contains NUL", raw)
	}
	name := strings.ReplaceAll(raw, "\\", "/")
	if strings.HasPrefix(name, "/") || hasDriveLetter(name) {
		return "", fmt.Errorf("entry name %q is absolute", raw)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("entry name %q escapes the archive root", raw)
		}
	}
	name = path.Clean(name)
	if name == "." {
		return "", nil
	}
	if dir {
		name += "/"
	}
	return name, nil
}

func hasDriveLetter(name string) bool {
	if len(name) < 2 || name[1] != ':' {
		return false
	}
	c := name[0] | 0x20
	return c >= 'a' && c <= 'z'
}
