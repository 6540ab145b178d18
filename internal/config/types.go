package config

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

const (
	DefaultOutput   = "site"
	DefaultParallel = 3

	SourceTypeFiles = "files"
	SourceTypeURL   = "url"

	validationTagRequiredIf = "required_if"
)

func DefaultPatterns() []string {
	return []string{"**/*.tm", "**/*.txt"}
}

type Config struct {
	Output     string            `koanf:"output"`
	Standalone bool              `koanf:"standalone"`
	Parallel   int               `koanf:"parallel"   validate:"min=1,max=32"`
	Limits     Limits            `koanf:"limits"`
	Sources    map[string]Source `koanf:"sources"`
	ConfigDir  string            `koanf:"-"`
}

// Limits bounds the size of a single document. Zero means unlimited.
type Limits struct {
	MaxBytes int `koanf:"max_bytes" validate:"min=0"`
	MaxLines int `koanf:"max_lines" validate:"min=0"`
}

type Source struct {
	Type       string         `koanf:"type"       validate:"required,oneof=files url"`
	Path       string         `koanf:"path"       validate:"required_if=Type files"`
	Patterns   []string       `koanf:"patterns"   validate:"dive,glob_pattern"`
	Exclude    []string       `koanf:"exclude"    validate:"dive,glob_pattern"`
	URL        string         `koanf:"url"        validate:"required_if=Type url,omitempty,url"`
	Filename   string         `koanf:"filename"`
	Out        string         `koanf:"out"`
	Standalone *bool          `koanf:"standalone"`
	Limits     LimitOverrides `koanf:"limits"`
}

// LimitOverrides replaces the top-level limits for one source. Unset fields
// inherit.
type LimitOverrides struct {
	MaxBytes *int `koanf:"max_bytes" validate:"omitempty,min=0"`
	MaxLines *int `koanf:"max_lines" validate:"omitempty,min=0"`
}

// RenderSettings are the config values that shape a source's pages.
type RenderSettings struct {
	Standalone bool
	Limits     Limits
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("glob_pattern", func(fl validator.FieldLevel) bool {
		return isValidPattern(fl.Field().String())
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	if c.Parallel == 0 {
		c.Parallel = DefaultParallel
	}

	for sourceName, sourceCfg := range c.Sources {
		if sourceCfg.Type == SourceTypeFiles && len(sourceCfg.Patterns) == 0 {
			sourceCfg.Patterns = DefaultPatterns()
		}

		c.Sources[sourceName] = sourceCfg
	}
}

func (c *Config) Validate() error {
	v := newValidator()

	if len(c.Sources) == 0 {
		return oops.
			Code("CONFIG_INVALID").
			With("field", "sources").
			Hint("Add at least one [sources.<name>] table").
			Errorf("config defines no sources")
	}

	if err := v.Struct(c); err != nil {
		return mapConfigError(err)
	}

	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, sourceName := range names {
		sourceCfg := c.Sources[sourceName]
		valErr := v.Struct(sourceCfg)
		if valErr == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(valErr, &validationErrors) {
			return oops.
				Code("CONFIG_INVALID").
				With("source", sourceName).
				Wrapf(valErr, "validating source %q", sourceName)
		}

		for _, fe := range validationErrors {
			return mapValidationError(sourceName, sourceCfg, fe)
		}
	}

	return nil
}

func mapConfigError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return oops.
			Code("CONFIG_INVALID").
			Wrapf(err, "validating config")
	}

	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())

	switch field {
	case "parallel":
		return oops.
			Code("CONFIG_INVALID").
			With("field", "parallel").
			With("value", fe.Value()).
			Hint("Set parallel between 1 and 32").
			Errorf("invalid parallel value %v", fe.Value())

	case "maxbytes", "maxlines":
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("value", fe.Value()).
			Hint("Limits must be zero (unlimited) or positive").
			Errorf("invalid limit %s = %v", field, fe.Value())

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for config field %q", field)
	}
}

func mapValidationError(sourceName string, sourceCfg Source, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == "oneof" && field == "type", fe.Tag() == "required" && field == "type":
		return oops.
			Code("UNKNOWN_SOURCE_TYPE").
			With("source", sourceName).
			With("type", sourceCfg.Type).
			Hint("Supported types: files, url").
			Errorf("unknown source type %q for source %q", sourceCfg.Type, sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "path":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "path").
			Hint("Set path to a directory of markup files").
			Errorf("missing path for source %q", sourceName)

	case fe.Tag() == validationTagRequiredIf && field == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			Hint("Set url for url sources").
			Errorf("missing url for source %q", sourceName)

	case fe.Tag() == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "url").
			With("value", sourceCfg.URL).
			Hint("Use an absolute URL such as https://example.com/doc.tm").
			Errorf("invalid url %q for source %q", sourceCfg.URL, sourceName)

	case field == "maxbytes" || field == "maxlines":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("value", fe.Value()).
			Hint("Limits must be zero (unlimited) or positive").
			Errorf("invalid limit %s in source %q", field, sourceName)

	case fe.Tag() == "glob_pattern":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("value", fe.Value()).
			Hint("Check the doublestar glob syntax").
			Errorf("invalid glob pattern %v for source %q", fe.Value(), sourceName)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q in source %q", field, sourceName)
	}
}

// OutputDir is where a source's rendered pages go.
func (c *Config) OutputDir(sourceName string, sourceCfg Source) string {
	baseOutputDir := c.Output
	if !filepath.IsAbs(baseOutputDir) {
		baseOutputDir = filepath.Join(c.ConfigDir, c.Output)
	}

	if sourceCfg.Out != "" {
		return filepath.Join(baseOutputDir, sourceCfg.Out)
	}

	return filepath.Join(baseOutputDir, sourceName)
}

// SourceRoot resolves a files source path against the config directory.
func (c *Config) SourceRoot(sourceCfg Source) string {
	if filepath.IsAbs(sourceCfg.Path) {
		return sourceCfg.Path
	}

	return filepath.Join(c.ConfigDir, sourceCfg.Path)
}

// RenderSettings merges a source's overrides over the top-level settings.
func (c *Config) RenderSettings(sourceCfg Source) RenderSettings {
	settings := RenderSettings{Standalone: c.Standalone, Limits: c.Limits}

	if sourceCfg.Standalone != nil {
		settings.Standalone = *sourceCfg.Standalone
	}

	if sourceCfg.Limits.MaxBytes != nil {
		settings.Limits.MaxBytes = *sourceCfg.Limits.MaxBytes
	}

	if sourceCfg.Limits.MaxLines != nil {
		settings.Limits.MaxLines = *sourceCfg.Limits.MaxLines
	}

	return settings
}
