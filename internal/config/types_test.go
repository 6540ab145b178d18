package config_test

import (
	"strings"
	"testing"

	"github.com/samber/oops"

	"github.com/g5becks/togglemark/internal/config"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name            string
		cfg             *config.Config
		wantCode        string
		wantErrContains string
	}{
		{
			name: "valid files source",
			cfg: &config.Config{
				Parallel: 3,
				Sources: map[string]config.Source{
					"notes": {Type: "files", Path: "notes", Patterns: []string{"**/*.tm"}},
				},
			},
		},
		{
			name: "valid url source",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"help": {Type: "url", URL: "https://example.test/help.tm"},
				},
			},
		},
		{
			name:            "no sources",
			cfg:             &config.Config{Parallel: 1},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "no sources",
		},
		{
			name: "unknown type",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"x": {Type: "github"},
				},
			},
			wantCode:        "UNKNOWN_SOURCE_TYPE",
			wantErrContains: `unknown source type "github"`,
		},
		{
			name: "files source without path",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"notes": {Type: "files"},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "missing path",
		},
		{
			name: "url source without url",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"help": {Type: "url"},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "missing url",
		},
		{
			name: "url source with bad url",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"help": {Type: "url", URL: "not a url"},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "invalid url",
		},
		{
			name: "bad glob",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"notes": {Type: "files", Path: "n", Patterns: []string{"[unclosed"}},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "invalid glob pattern",
		},
		{
			name: "parallel too high",
			cfg: &config.Config{
				Parallel: 64,
				Sources: map[string]config.Source{
					"help": {Type: "url", URL: "https://example.test/help.tm"},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "invalid parallel",
		},
		{
			name: "negative limit",
			cfg: &config.Config{
				Parallel: 1,
				Limits:   config.Limits{MaxBytes: -1},
				Sources: map[string]config.Source{
					"help": {Type: "url", URL: "https://example.test/help.tm"},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: "invalid limit",
		},
		{
			name: "negative source limit",
			cfg: &config.Config{
				Parallel: 1,
				Sources: map[string]config.Source{
					"help": {
						Type:   "url",
						URL:    "https://example.test/help.tm",
						Limits: config.LimitOverrides{MaxLines: intPtr(-5)},
					},
				},
			},
			wantCode:        "CONFIG_INVALID",
			wantErrContains: `invalid limit maxlines in source "help"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErrContains == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tc.wantErrContains)
			}

			if !strings.Contains(err.Error(), tc.wantErrContains) {
				t.Fatalf("Validate() error = %q, want to contain %q", err.Error(), tc.wantErrContains)
			}

			oopsErr, ok := oops.AsOops(err)
			if !ok || oopsErr.Code() != tc.wantCode {
				t.Fatalf("Validate() code mismatch for %v, want %s", err, tc.wantCode)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &config.Config{
		Sources: map[string]config.Source{
			"notes":  {Type: "files", Path: "notes"},
			"custom": {Type: "files", Path: "c", Patterns: []string{"*.txt"}},
			"help":   {Type: "url", URL: "https://example.test/help.tm"},
		},
	}

	cfg.ApplyDefaults()

	if cfg.Output != config.DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, config.DefaultOutput)
	}
	if cfg.Parallel != config.DefaultParallel {
		t.Errorf("Parallel = %d, want %d", cfg.Parallel, config.DefaultParallel)
	}
	if got := cfg.Sources["notes"].Patterns; len(got) != len(config.DefaultPatterns()) {
		t.Errorf("notes patterns = %v, want defaults", got)
	}
	if got := cfg.Sources["custom"].Patterns; len(got) != 1 || got[0] != "*.txt" {
		t.Errorf("custom patterns = %v, want [*.txt]", got)
	}
	if got := cfg.Sources["help"].Patterns; len(got) != 0 {
		t.Errorf("url patterns = %v, want none", got)
	}
}

func TestRenderSettingsOverrides(t *testing.T) {
	cfg := &config.Config{
		Standalone: true,
		Limits:     config.Limits{MaxBytes: 100, MaxLines: 10},
	}

	standalone := false
	testCases := []struct {
		name string
		src  config.Source
		want config.RenderSettings
	}{
		{
			name: "inherits everything",
			src:  config.Source{},
			want: config.RenderSettings{Standalone: true, Limits: config.Limits{MaxBytes: 100, MaxLines: 10}},
		},
		{
			name: "overrides standalone",
			src:  config.Source{Standalone: &standalone},
			want: config.RenderSettings{Standalone: false, Limits: config.Limits{MaxBytes: 100, MaxLines: 10}},
		},
		{
			name: "zero limit override means unlimited",
			src:  config.Source{Limits: config.LimitOverrides{MaxBytes: intPtr(0)}},
			want: config.RenderSettings{Standalone: true, Limits: config.Limits{MaxBytes: 0, MaxLines: 10}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cfg.RenderSettings(tc.src); got != tc.want {
				t.Errorf("RenderSettings() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func intPtr(v int) *int {
	return &v
}
