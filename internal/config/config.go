package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// FileName is the config file name written by 'togglemark init'.
const FileName = "togglemark.toml"

// builtinDefaults is the lowest config layer. The user's file is merged
// over it key by key.
const builtinDefaults = `
output = "site"
standalone = false
parallel = 3

[limits]
max_bytes = 0
max_lines = 0
`

func configFilenames() []string {
	return []string{FileName, ".togglemark.toml"}
}

// Load reads the config at configPath, or the nearest one found by
// FindConfigFile when configPath is empty. Relative output and source paths
// resolve against the config file's directory.
func Load(configPath string) (*Config, error) {
	resolvedPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	absConfigPath, err := filepath.Abs(resolvedPath)
	if err != nil {
		return nil, oops.Wrapf(err, "resolving absolute config path")
	}

	cfg := &Config{}
	k := koanf.New(".")

	if defaultsErr := k.Load(rawbytes.Provider([]byte(builtinDefaults)), toml.Parser()); defaultsErr != nil {
		return nil, oops.
			Code("INTERNAL_FAULT").
			Wrapf(defaultsErr, "loading built-in config defaults")
	}

	if loadErr := k.Load(file.Provider(absConfigPath), toml.Parser()); loadErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix TOML syntax and required fields in your config").
			Wrapf(loadErr, "loading config from %q", absConfigPath)
	}

	if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			With("path", absConfigPath).
			Hint("Fix config structure to match the togglemark schema").
			Wrapf(unmarshalErr, "decoding config from %q", absConfigPath)
	}

	cfg.ConfigDir = filepath.Dir(absConfigPath)
	cfg.ApplyDefaults()

	if valErr := cfg.Validate(); valErr != nil {
		return nil, valErr
	}

	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Clean(filepath.Join(cfg.ConfigDir, cfg.Output))
	}

	return cfg, nil
}

// FindConfigFile walks up from the working directory to the first directory
// holding a config file.
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", oops.Wrapf(err, "getting working directory")
	}

	for {
		foundPath, found, findErr := findConfigInDirectory(dir)
		if findErr != nil {
			return "", findErr
		}

		if found {
			return foundPath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", oops.
				Code("CONFIG_NOT_FOUND").
				Hint("Run 'togglemark init' to create a config file").
				Errorf("no togglemark.toml or .togglemark.toml found in any parent directory")
		}

		dir = parentDir
	}
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", oops.
					Code("CONFIG_NOT_FOUND").
					With("path", configPath).
					Hint("Create the file or pass a valid --config path").
					Errorf("config file %q does not exist", configPath)
			}

			return "", oops.Wrapf(err, "checking config file %q", configPath)
		}

		return configPath, nil
	}

	return FindConfigFile()
}

func findConfigInDirectory(dir string) (string, bool, error) {
	for _, name := range configFilenames() {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, oops.Wrapf(err, "checking for config file at %q", path)
		}
	}

	return "", false, nil
}

const starterConfig = `# togglemark build configuration.
output = "site"
standalone = true
parallel = 3

[limits]
max_bytes = 1048576
max_lines = 0

[sources.notes]
type = "files"
path = "notes"
# patterns = ["**/*.tm", "**/*.txt"]
# exclude = ["drafts/**"]
# standalone = false
# [sources.notes.limits]
# max_lines = 5000

# [sources.help]
# type = "url"
# url = "https://example.com/help.tm"
`

// WriteStarter writes a starter config into dir and returns its path. An
// existing file is only replaced when force is set.
func WriteStarter(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)

	if _, err := os.Stat(path); err == nil && !force {
		return "", oops.
			Code("CONFIG_INVALID").
			With("path", path).
			Hint("Pass --force to overwrite it").
			Errorf("config file %q already exists", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return "", oops.
			Code("WRITE_FAILED").
			With("path", path).
			Wrapf(err, "writing starter config")
	}

	return path, nil
}
