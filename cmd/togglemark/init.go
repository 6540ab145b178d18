package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/config"
)

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a starter togglemark.toml",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return oops.Wrapf(err, "getting working directory")
		}
		dir = wd
	}

	path, err := config.WriteStarter(dir, cmd.Bool("force"))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout(cmd), "created %s\n", path)
	return err
}
