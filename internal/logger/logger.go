package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured build diagnostics.
type Logger struct {
	*log.Logger
}

// New creates a logger at info level writing to w.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// LevelFor maps the CLI verbosity flags to a log level. Quiet wins.
func LevelFor(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return New(io.Discard)
}

func (l *Logger) BuildStarted(sources int, output string) {
	l.Info("build started",
		"sources", sources,
		"output", output)
}

func (l *Logger) BuildCompleted(rendered, skipped, deleted, failed int, duration time.Duration) {
	l.Info("build completed",
		"rendered", rendered,
		"skipped", skipped,
		"deleted", deleted,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// DocumentRendered logs a document written to dest.
func (l *Logger) DocumentRendered(source, path, dest string) {
	l.Debug("document rendered",
		"source", source,
		"path", path,
		"dest", dest)
}

// Skipped logs when a document or source is left untouched.
func (l *Logger) Skipped(source, path, reason string) {
	l.Debug("skipped",
		"source", source,
		"path", path,
		"reason", reason)
}

// SettingsChanged notes that a source is rebuilt in full because the render
// settings differ from its last build.
func (l *Logger) SettingsChanged(source string) {
	l.Info("render settings changed, rebuilding", "source", source)
}

func (l *Logger) DocumentError(source, path string, err error) {
	l.Error("document failed",
		"source", source,
		"path", path,
		"error", err)
}

func (l *Logger) SourceError(source string, err error) {
	l.Error("source failed",
		"source", source,
		"error", err)
}

func (l *Logger) ConfigLoaded(path string, sources int) {
	l.Debug("config loaded",
		"path", path,
		"sources", sources)
}
