package logging

import "context"

type contextKey int

const (
	runIDKey contextKey = iota
	generationKey
)

// WithRunID attaches a run identifier to the context so every log entry
// emitted during that run carries it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID extracts the run identifier from the context.
func GetRunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok
}

// WithGeneration attaches the current generation number to the context.
func WithGeneration(ctx context.Context, number int) context.Context {
	return context.WithValue(ctx, generationKey, number)
}

// GetGeneration extracts the generation number from the context.
func GetGeneration(ctx context.Context) (int, bool) {
	n, ok := ctx.Value(generationKey).(int)
	return n, ok
}
