// Package logger provides the structured logging engine for dtogen.
// Uses log/slog with two sinks: stderr and an append-only log file.
// The "pretty" format renders stderr through charmbracelet/log.
package logger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger wraps slog.Logger with dtogen-specific utilities.
type Logger struct {
	*slog.Logger
	auditW  io.Writer // append-only audit log writer (nil = disabled)
	closers []io.Closer
}

// Options selects the level, format and sinks of a Logger.
type Options struct {
	Level  string // debug | info | warn | error
	Format string // text | json | pretty
	File   string // log file path; empty disables the file sink
	Home   string // directory holding audit.log; empty disables auditing
	Debug  bool   // forces debug level and source locations
	Stderr io.Writer
}

// ParseLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a Logger and installs it as the slog default.
func New(opts Options) (*Logger, error) {
	lvl := ParseLevel(opts.Level)
	if opts.Debug {
		lvl = slog.LevelDebug
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	l := &Logger{}
	hopts := &slog.HandlerOptions{Level: lvl, AddSource: opts.Debug}

	var fileW io.Writer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err == nil {
			f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
			if err == nil {
				fileW = f
				l.closers = append(l.closers, f)
			}
		}
	}

	var handler slog.Handler
	switch opts.Format {
	case "json":
		handler = slog.NewJSONHandler(multi(stderr, fileW), hopts)
	case "pretty":
		pretty := charmlog.NewWithOptions(stderr, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			ReportCaller:    opts.Debug,
			Prefix:          "dtogen",
		})
		handler = pretty
		if fileW != nil {
			handler = fanout{pretty, slog.NewTextHandler(fileW, hopts)}
		}
	default:
		handler = slog.NewTextHandler(multi(stderr, fileW), hopts)
	}

	l.Logger = slog.New(handler)
	slog.SetDefault(l.Logger)

	// Audit log
	if opts.Home != "" {
		auditPath := filepath.Join(opts.Home, "audit.log")
		if err := os.MkdirAll(opts.Home, 0750); err == nil {
			if af, err := os.OpenFile(auditPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640); err == nil {
				l.auditW = af
				l.closers = append(l.closers, af)
			}
		}
	}

	return l, nil
}

// Close releases the log and audit files.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

func multi(stderr, file io.Writer) io.Writer {
	if file == nil {
		return stderr
	}
	return io.MultiWriter(stderr, file)
}

// ─────────────────────────────────────────────────────────────────────────────
// Audit logging
// ─────────────────────────────────────────────────────────────────────────────

// AuditEntry represents a single audit log event.
type AuditEntry struct {
	Timestamp time.Time         `json:"ts"`
	Op        string            `json:"op"` // generate | package
	User      string            `json:"user"`
	Target    string            `json:"target,omitempty"`
	Result    string            `json:"result"` // success | failure
	Meta      map[string]string `json:"meta,omitempty"`
}

// Audit writes an append-only audit log entry.
func (l *Logger) Audit(entry AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.User == "" {
		entry.User = currentUser()
	}
	l.Debug("audit",
		"op", entry.Op,
		"user", entry.User,
		"target", entry.Target,
		"result", entry.Result,
	)
	if l.auditW == nil {
		return
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.auditW.Write(append(line, '\n'))
}

func currentUser() string {
	for _, k := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(k); u != "" {
			return u
		}
	}
	return "unknown"
}

// ─────────────────────────────────────────────────────────────────────────────
// Fan-out handler
// ─────────────────────────────────────────────────────────────────────────────

// fanout sends every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
