package main

import (
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/markup"
)

const stdinArg = "-"

func limitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "max-bytes", Usage: "Reject input larger than N bytes (0 = unlimited)"},
		&cli.IntFlag{Name: "max-lines", Usage: "Reject input with more than N lines (0 = unlimited)"},
	}
}

// readInput reads the single optional file argument, or stdin when it is
// missing or "-".
func readInput(cmd *cli.Command) (string, []byte, error) {
	if cmd.Args().Len() > 1 {
		return "", nil, oops.
			Code("INVALID_ARGS").
			Hint("Usage: togglemark " + cmd.Name + " [file|-]").
			Errorf("expected at most 1 argument, got %d", cmd.Args().Len())
	}

	name := cmd.Args().First()
	if name == "" || name == stdinArg {
		content, err := io.ReadAll(stdin(cmd))
		if err != nil {
			return "", nil, oops.
				Code("READ_FAILED").
				Wrapf(err, "reading standard input")
		}

		return stdinArg, content, nil
	}

	content, err := os.ReadFile(name)
	if err != nil {
		code := "READ_FAILED"
		if os.IsNotExist(err) {
			code = "DOCUMENT_NOT_FOUND"
		}

		return "", nil, oops.
			Code(code).
			With("path", name).
			Wrapf(err, "reading %q", name)
	}

	return name, content, nil
}

func parseInput(cmd *cli.Command) (*markup.Document, error) {
	name, content, err := readInput(cmd)
	if err != nil {
		return nil, err
	}

	doc, err := markup.Parse(string(content),
		markup.WithMaxBytes(int(cmd.Int("max-bytes"))),
		markup.WithMaxLines(int(cmd.Int("max-lines"))),
	)
	if err != nil {
		return nil, oops.With("input", name).Wrapf(err, "parsing %s", name)
	}

	return doc, nil
}
