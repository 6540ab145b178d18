package main

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/lockfile"
	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/ui"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured sources and their build status",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show expanded source fields"},
		},
		Action: listAction,
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	lock, err := lockfile.Load(cfg.Output)
	if err != nil {
		return err
	}

	m, err := manifest.LoadOrNew(cfg.Output)
	if err != nil {
		return err
	}

	return ui.RenderSourceList(stdout(cmd), sourceStatuses(cfg, lock, m), ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}

func sourceStatuses(cfg *config.Config, lock *lockfile.LockFile, m *manifest.Manifest) []ui.SourceStatus {
	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	slices.Sort(names)

	statuses := make([]ui.SourceStatus, 0, len(names))
	for _, name := range names {
		src := cfg.Sources[name]
		status := ui.SourceStatus{
			Name:      name,
			Type:      src.Type,
			URL:       src.URL,
			Patterns:  src.Patterns,
			OutputDir: cfg.OutputDir(name, src),
			Status:    "not built",
		}

		if src.Type == config.SourceTypeFiles {
			status.Path = cfg.SourceRoot(src)
		}

		if entry := lock.GetEntry(name); entry != nil {
			status.Status = "built"
			status.BuiltAt = entry.BuiltAt
		}

		if coll, ok := m.Collections[name]; ok {
			status.FileCount = coll.FileCount
		}

		statuses = append(statuses, status)
	}

	return statuses
}

func newCollectionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "collections",
		Usage: "List built collections from the manifest",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
		},
		Action: collectionsAction,
	}
}

type collectionOutput struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Files     int       `json:"files"`
	Size      int64     `json:"size"`
	LastBuild time.Time `json:"last_build"`
}

func collectionsAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	collections := make([]collectionOutput, 0, len(m.Collections))
	for _, name := range m.CollectionNames() {
		coll := m.Collections[name]
		collections = append(collections, collectionOutput{
			Name:      coll.Name,
			Type:      coll.Type,
			Location:  coll.Location,
			Files:     coll.FileCount,
			Size:      coll.TotalSize,
			LastBuild: coll.LastBuild,
		})
	}

	if cmd.Bool("json") {
		encoder := json.NewEncoder(stdout(cmd))
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(collections); err != nil {
			return oops.
				Code("JSON_ERROR").
				Wrapf(err, "encoding collections")
		}

		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout(cmd))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAME", "TYPE", "FILES", "SIZE", "LAST BUILD"})

	for _, coll := range collections {
		t.AppendRow(table.Row{
			coll.Name,
			coll.Type,
			coll.Files,
			formatSize(coll.Size),
			formatTime(coll.LastBuild),
		})
	}

	t.Render()
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Local().Format(time.DateTime)
}
