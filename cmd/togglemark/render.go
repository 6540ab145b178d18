package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/fsutil"
	"github.com/g5becks/togglemark/internal/render"
)

func newRenderCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write HTML to this file instead of stdout"},
		&cli.BoolFlag{Name: "standalone", Aliases: []string{"s"}, Usage: "Emit a complete HTML page"},
		&cli.StringFlag{Name: "title", Usage: "Page title for --standalone (defaults to the first heading)"},
	}

	return &cli.Command{
		Name:      "render",
		Usage:     "Render markup to HTML",
		ArgsUsage: "[file|-]",
		Flags:     append(flags, limitFlags()...),
		Action:    renderAction,
	}
}

func renderAction(_ context.Context, cmd *cli.Command) error {
	doc, err := parseInput(cmd)
	if err != nil {
		return err
	}

	var out string
	if cmd.Bool("standalone") {
		out = render.Page(doc, cmd.String("title"))
	} else {
		out = render.Document(doc)
	}

	if dest := cmd.String("out"); dest != "" {
		return fsutil.WriteFileAtomic(dest, []byte(out))
	}

	_, err = fmt.Fprint(stdout(cmd), out)
	return err
}
