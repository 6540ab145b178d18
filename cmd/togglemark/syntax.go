package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/togglemark/internal/markup"
	"github.com/g5becks/togglemark/internal/render"
)

const syntaxSample = `# Biggest Heading
## Heading Level 2
### Heading Level 3

Paragraph text with *bold*, ^italic^, and _underline_.
New lines are honoured

Blank lines create new paragraphs

- Bullet item 1
- Bullet item 2
- Bullet item 3

#. Enumerated item 1
#. Enumerated item 2
#. Enumerated item 3`

func newSyntaxCommand() *cli.Command {
	return &cli.Command{
		Name:  "syntax",
		Usage: "Print a markup cheat sheet and how it renders",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "source", Usage: "Print only the markup sample"},
			&cli.BoolFlag{Name: "html", Usage: "Print only the rendered HTML"},
		},
		Action: syntaxAction,
	}
}

func syntaxAction(_ context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	if cmd.Bool("source") {
		_, err := fmt.Fprintln(w, syntaxSample)
		return err
	}

	doc, err := markup.Parse(syntaxSample)
	if err != nil {
		return err
	}

	rendered := render.Document(doc)
	if cmd.Bool("html") {
		_, err := fmt.Fprint(w, rendered)
		return err
	}

	fmt.Fprintln(w, "MARKUP:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, syntaxSample)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Toggles: * bold, ^ italic, _ underline. Each marker flips its style on or off.")
	fmt.Fprintln(w, "Lines: # ## ### headings, - bullets, #. numbered items, blank line separates paragraphs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	_, err = fmt.Fprint(w, rendered)
	return err
}
