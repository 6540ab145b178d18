package ui

// Test-only exports for internal helper functions.

//nolint:gochecknoglobals // Test-only exports
var (
	RenderLocation = renderLocation
	RenderStatus   = renderStatus
	FormatCounts   = formatCounts
	Truncate       = truncate
)
