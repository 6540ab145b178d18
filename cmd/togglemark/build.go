package main

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/build"
	"github.com/g5becks/togglemark/internal/config"
	"github.com/g5becks/togglemark/internal/logger"
	"github.com/g5becks/togglemark/internal/ui"
)

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Render every configured source into the output directory",
		ArgsUsage: "[source-name...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Re-render documents even when unchanged"},
			&cli.BoolFlag{Name: "clean", Usage: "Delete the output directory before building"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show planned changes without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel source builds (0 = config value)"},
			&cli.BoolFlag{Name: "progress", Usage: "Show per-source progress bars"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log every document"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		},
		Action: buildAction,
	}
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	log := logger.NewWithLevel(stderr(cmd), logger.LevelFor(cmd.Bool("verbose"), cmd.Bool("quiet")))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	log.ConfigLoaded(cfg.ConfigDir, len(cfg.Sources))

	printer := ui.NewBuildPrinterWithWriter(stderr(cmd), cmd.Bool("dry-run"))
	opts := build.Options{
		SourceNames: cmd.Args().Slice(),
		Force:       cmd.Bool("force"),
		DryRun:      cmd.Bool("dry-run"),
		Clean:       cmd.Bool("clean"),
		MaxParallel: int(cmd.Int("parallel")),
		Logger:      log,
	}

	if cmd.Bool("progress") && isatty.IsTerminal(os.Stderr.Fd()) {
		writer := ui.NewProgressWriter(stderr(cmd))
		opts.Progress = writer
		go writer.Render()
	} else {
		opts.OnEvent = printer.HandleEvent
	}

	result, err := build.Run(ctx, cfg, opts)
	if opts.Progress != nil {
		stopProgress(opts.Progress)
	}

	printer.PrintSummary(result)
	return err
}

type stoppable interface {
	Stop()
	IsRenderInProgress() bool
}

func stopProgress(writer stoppable) {
	if !writer.IsRenderInProgress() {
		return
	}

	writer.Stop()
	for writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
