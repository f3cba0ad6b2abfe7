package logging

// LogEntry represents a structured log record with fields particularly
// relevant to evolution-run bookkeeping.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID      string // The evolution run being processed
	Generation int    // Generation number, -1 when not generation-scoped

	// General structured data
	Fields map[string]interface{}
}
