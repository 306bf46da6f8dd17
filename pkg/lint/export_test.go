package lint

import (
	"context"
	"os"
	"testing"
)

// SetWriteAtomic swaps the function ProcessFile writes fixed files with
// until t finishes. Callers must not run in parallel.
func SetWriteAtomic(t testing.TB, fn func(ctx context.Context, path string, content []byte, mode os.FileMode) error) {
	t.Helper()

	prev := writeAtomic
	writeAtomic = fn
	t.Cleanup(func() { writeAtomic = prev })
}
