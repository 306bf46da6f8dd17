package lint

import (
	"context"

	"github.com/yaklabco/dslint/pkg/jsast"
)

// Parser parses one JavaScript or TypeScript source file into a
// FileSnapshot.
//
// The lint package defines this interface in the consumer package;
// parser/treesitter provides the concrete implementation.
//
// Implementations must be:
//   - deterministic for a given (path, content) pair,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Parser interface {
	// Parse converts raw source bytes into a fully-populated FileSnapshot.
	//
	// On a syntax error it returns nil and a *jsast.ParseError; no partial
	// snapshot is returned. The returned FileSnapshot satisfies:
	//   - snapshot.Path == path
	//   - bytes.Equal(snapshot.Content, content)
	//   - jsast.ValidateTokens(snapshot.Tokens, len(snapshot.Content))
	//   - snapshot.Root.Kind == jsast.KindProgram
	//   - every node has node.File == snapshot
	Parse(ctx context.Context, path string, content []byte) (*jsast.FileSnapshot, error)
}

// DocumentParser extracts and parses the code blocks embedded in a
// documentation file. parser/mdx provides the implementation.
type DocumentParser interface {
	// ParseDocument returns one Embedded per code block in document order.
	// A block that fails to parse carries its *jsast.ParseError in Err.
	ParseDocument(ctx context.Context, path string, content []byte) ([]jsast.Embedded, error)
}
