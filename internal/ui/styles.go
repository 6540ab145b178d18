package ui

import "github.com/fatih/color"

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}
