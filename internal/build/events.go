package build

import "time"

type EventKind int

const (
	EventSourceStart EventKind = iota
	EventSourceDone
)

// Event reports per-source progress. OnEvent handlers are called from the
// worker goroutines and must be safe for concurrent use.
type Event struct {
	Kind   EventKind
	Source string
	Result *SourceResult
	Err    error
}

// SourceResult counts what happened to one source's documents.
type SourceResult struct {
	Rendered    int
	Skipped     int
	Deleted     int
	NotModified bool
}

// RunResult aggregates a whole build.
type RunResult struct {
	Sources  int
	Rendered int
	Skipped  int
	Deleted  int
	UpToDate int
	Errors   int
	Duration time.Duration
}
