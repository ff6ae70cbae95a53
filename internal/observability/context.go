package observability

import (
	"context"
)

// Context keys for observability data.
type contextKey string

const (
	runIDKey      contextKey = "run_id"
	sourceFileKey contextKey = "source_file"
	doiKey        contextKey = "doi"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext retrieves the run ID from context.
// Returns empty string if not present.
func RunIDFromContext(ctx context.Context) string {
	if v := ctx.Value(runIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithSourceFile adds the source file and DOI being processed to the context.
func WithSourceFile(ctx context.Context, sourceFile, doi string) context.Context {
	ctx = context.WithValue(ctx, sourceFileKey, sourceFile)
	ctx = context.WithValue(ctx, doiKey, doi)
	return ctx
}

// SourceFileFromContext retrieves the source file and DOI from context.
// Returns empty strings if not present.
func SourceFileFromContext(ctx context.Context) (sourceFile, doi string) {
	if v := ctx.Value(sourceFileKey); v != nil {
		if s, ok := v.(string); ok {
			sourceFile = s
		}
	}
	if v := ctx.Value(doiKey); v != nil {
		if s, ok := v.(string); ok {
			doi = s
		}
	}
	return sourceFile, doi
}
