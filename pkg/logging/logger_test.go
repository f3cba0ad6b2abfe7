package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput records entries for inspection.
type captureOutput struct {
	entries []LogEntry
}

func (c *captureOutput) Write(e LogEntry) error {
	c.entries = append(c.entries, e)
	return nil
}

func (c *captureOutput) Sync() error  { return nil }
func (c *captureOutput) Close() error { return nil }

func TestLoggerSeverityFiltering(t *testing.T) {
	capture := &captureOutput{}
	logger := NewLogger(Config{
		Severity: WARN,
		Outputs:  []Output{capture},
	})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Len(t, capture.entries, 2)
	assert.Equal(t, WARN, capture.entries[0].Severity)
	assert.Equal(t, "warn message", capture.entries[0].Message)
	assert.Equal(t, ERROR, capture.entries[1].Severity)
}

func TestLoggerContextFields(t *testing.T) {
	capture := &captureOutput{}
	logger := NewLogger(Config{
		Severity: DEBUG,
		Outputs:  []Output{capture},
	})

	ctx := WithGeneration(WithRunID(context.Background(), "run-123"), 2)
	logger.Info(ctx, "evaluating candidates=%d", 8)

	require.Len(t, capture.entries, 1)
	entry := capture.entries[0]
	assert.Equal(t, "run-123", entry.RunID)
	assert.Equal(t, 2, entry.Generation)
	assert.Equal(t, "evaluating candidates=8", entry.Message)
}

func TestLoggerDefaultFields(t *testing.T) {
	capture := &captureOutput{}
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{capture},
		DefaultFields: map[string]interface{}{"component": "engine"},
	})

	logger.Info(context.Background(), "hello")

	require.Len(t, capture.entries, 1)
	assert.Equal(t, "engine", capture.entries[0].Fields["component"])
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, DEBUG, ParseSeverity("DEBUG"))
	assert.Equal(t, ERROR, ParseSeverity("ERROR"))
	assert.Equal(t, INFO, ParseSeverity("bogus"))
}
