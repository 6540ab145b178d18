package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/ui"
)

func newTreeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the parsed node tree",
		ArgsUsage: "[file|-]",
		Flags:     append([]cli.Flag{jsonFlag()}, limitFlags()...),
		Action:    treeAction,
	}
}

func treeAction(_ context.Context, cmd *cli.Command) error {
	doc, err := parseInput(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		data, err := json.MarshalIndent(doc.Root(), "", "  ")
		if err != nil {
			return oops.
				Code("JSON_ERROR").
				Wrapf(err, "encoding node tree")
		}

		_, err = fmt.Fprintln(stdout(cmd), string(data))
		return err
	}

	ui.RenderTree(stdout(cmd), doc.Root())
	return nil
}
