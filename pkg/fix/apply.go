package fix

import "slices"

// ApplyEdits applies a validated, conflict-free set of edits to content.
// Edits are spliced from the highest start offset down, so earlier offsets
// stay valid while later text changes. Content is not modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	out := make([]byte, len(content))
	copy(out, content)
	if len(edits) == 0 {
		return out
	}

	ordered := make([]TextEdit, len(edits))
	copy(ordered, edits)
	slices.SortStableFunc(ordered, func(a, b TextEdit) int {
		return -compareEdits(a, b)
	})

	for _, e := range ordered {
		out = slices.Concat(out[:e.StartOffset:e.StartOffset], []byte(e.NewText), out[e.EndOffset:])
	}

	return out
}
