package ui

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// NewProgressWriter returns a per-source progress display writing to w. The
// caller runs Render in a goroutine and calls Stop once the build returns.
func NewProgressWriter(w io.Writer) progress.Writer {
	writer := progress.NewWriter()
	writer.SetOutputWriter(w)
	writer.SetAutoStop(false)
	writer.SetTrackerLength(30)
	writer.SetMessageLength(24)
	writer.SetUpdateFrequency(100 * time.Millisecond)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = false
	writer.Style().Visibility.Speed = false
	writer.Style().Visibility.Value = true

	return writer
}
