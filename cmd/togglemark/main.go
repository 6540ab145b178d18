package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	return newRootCommand().Run(ctx, args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "togglemark",
		Usage:   "Parse toggle-style markup and render it to HTML",
		Version: versionString(),
		Commands: []*cli.Command{
			newRenderCommand(),
			newTreeCommand(),
			newOutlineCommand(),
			newBuildCommand(),
			newSearchCommand(),
			newListCommand(),
			newCollectionsCommand(),
			newSyntaxCommand(),
			newInitCommand(),
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output as JSON"}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

func stdin(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}

	return os.Stdin
}
