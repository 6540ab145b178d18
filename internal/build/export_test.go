package build

import (
	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/source"
)

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	ResolveSourceNames  = resolveSourceNames
	ResolveOutputRoot   = resolveOutputRoot
	OutputPath          = outputPath
	CheckCollisions     = checkCollisions
	ContentHash         = contentHash
	SettingsFingerprint = settingsFingerprint
)

// WithSourceFactory replaces source construction so tests can inject fakes.
func WithSourceFactory(opts Options, factory func(string, config.Source) (source.Source, error)) Options {
	opts.newSource = factory
	return opts
}
