package main

import (
	"context"
	"fmt"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/markup"
	"github.com/g5becks/togglemark/internal/ui"
)

func newOutlineCommand() *cli.Command {
	flags := []cli.Flag{
		configFlag(),
		jsonFlag(),
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Read the outline of <file> from this built collection's manifest",
		},
	}

	return &cli.Command{
		Name:      "outline",
		Usage:     "Show a document's headings",
		ArgsUsage: "[file|-]",
		Flags:     append(flags, limitFlags()...),
		Action:    outlineAction,
	}
}

func outlineAction(_ context.Context, cmd *cli.Command) error {
	if collection := cmd.String("collection"); collection != "" {
		return builtOutline(cmd, collection)
	}

	doc, err := parseInput(cmd)
	if err != nil {
		return err
	}

	return ui.RenderOutline(stdout(cmd), doc.Outline(), cmd.Bool("json"))
}

func builtOutline(cmd *cli.Command, collectionName string) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: togglemark outline --collection <name> <file>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	filePath := cmd.Args().First()

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	collection, ok := m.Collections[collectionName]
	if !ok {
		return oops.
			Code("DOCUMENT_NOT_FOUND").
			With("collection", collectionName).
			Hint("Run 'togglemark collections' to see available collections").
			Errorf("collection %q not found", collectionName)
	}

	fileInfo, ok := collection.File(filePath)
	if !ok {
		return oops.
			Code("DOCUMENT_NOT_FOUND").
			With("file", filePath).
			With("collection", collectionName).
			Hint("Check the path against the collection's manifest").
			Errorf("file %q not found in collection %q", filePath, collectionName)
	}

	if !cmd.Bool("json") {
		fmt.Fprintf(stdout(cmd), "%s (%d lines, %s)\n", fileInfo.Path, fileInfo.Lines, formatSize(fileInfo.Size))
	}

	headings := fileInfo.Outline
	if headings == nil {
		headings = []markup.Heading{}
	}

	return ui.RenderOutline(stdout(cmd), headings, cmd.Bool("json"))
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
