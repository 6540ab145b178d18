package main

import (
	"context"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/manifest"
	"github.com/g5becks/togglemark/internal/search"
	"github.com/g5becks/togglemark/internal/ui"
)

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search built documents by metadata or content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			jsonFlag(),
			&cli.StringFlag{Name: "collection", Usage: "Search only within one collection"},
			&cli.BoolFlag{Name: "content", Usage: "Search document text instead of metadata"},
			&cli.BoolFlag{Name: "regex", Usage: "Treat query as regex (requires --content)"},
			&cli.IntFlag{Name: "limit", Usage: "Max results (0 = unlimited)"},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: togglemark search <query>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	query := strings.TrimSpace(cmd.Args().First())

	if cmd.Bool("regex") && !cmd.Bool("content") {
		return oops.
			Code("INVALID_ARGS").
			Hint("--regex requires --content flag").
			Errorf("--regex can only be used with --content")
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.Output)
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))

	if cmd.Bool("content") {
		results, err := search.Content(m, search.ContentOptions{
			Query:      query,
			Collection: cmd.String("collection"),
			UseRegex:   cmd.Bool("regex"),
			Limit:      limit,
		})
		if err != nil {
			return err
		}

		return ui.RenderContentResults(stdout(cmd), results, cmd.Bool("json"))
	}

	results, err := search.Metadata(m, search.MetadataOptions{
		Query:      query,
		Collection: cmd.String("collection"),
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return ui.RenderSearchResults(stdout(cmd), results, cmd.Bool("json"))
}
