package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDContext(t *testing.T) {
	t.Run("stores and retrieves run ID", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithRunID(ctx, "run-123")

		result := RunIDFromContext(ctx)
		assert.Equal(t, "run-123", result)
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		ctx := context.Background()
		result := RunIDFromContext(ctx)
		assert.Equal(t, "", result)
	})
}

func TestSourceFileContext(t *testing.T) {
	t.Run("stores and retrieves source file and DOI", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithSourceFile(ctx, "article_0001.xml", "10.1/x")

		sourceFile, doi := SourceFileFromContext(ctx)
		assert.Equal(t, "article_0001.xml", sourceFile)
		assert.Equal(t, "10.1/x", doi)
	})

	t.Run("returns empty strings when not set", func(t *testing.T) {
		ctx := context.Background()
		sourceFile, doi := SourceFileFromContext(ctx)
		assert.Equal(t, "", sourceFile)
		assert.Equal(t, "", doi)
	})

	t.Run("handles partial values", func(t *testing.T) {
		ctx := context.Background()
		ctx = WithSourceFile(ctx, "article_0002.xml", "")

		sourceFile, doi := SourceFileFromContext(ctx)
		assert.Equal(t, "article_0002.xml", sourceFile)
		assert.Equal(t, "", doi)
	})
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()

	// Chain multiple context additions
	ctx = WithRunID(ctx, "run-1")
	ctx = WithSourceFile(ctx, "a.xml", "10.1/a")

	// All values should be retrievable
	assert.Equal(t, "run-1", RunIDFromContext(ctx))

	sourceFile, doi := SourceFileFromContext(ctx)
	assert.Equal(t, "a.xml", sourceFile)
	assert.Equal(t, "10.1/a", doi)
}

func TestContextOverwrite(t *testing.T) {
	ctx := context.Background()

	// Set initial values
	ctx = WithRunID(ctx, "run-1")

	// Overwrite with new values
	ctx = WithRunID(ctx, "run-2")

	// Should have new value
	assert.Equal(t, "run-2", RunIDFromContext(ctx))
}
