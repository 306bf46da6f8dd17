// Package fix provides text edit types and application logic for auto-fixing.
// Edits are pure data: byte ranges into the source plus replacement text.
package fix

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsertion reports whether the edit replaces no bytes.
func (e TextEdit) IsInsertion() bool {
	return e.StartOffset == e.EndOffset
}

// Overlaps reports whether two edits would corrupt each other when applied
// together: their ranges share a byte, or both insert at the same offset.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.IsInsertion() && other.IsInsertion() {
		return e.StartOffset == other.StartOffset
	}
	return e.StartOffset < other.EndOffset && other.StartOffset < e.EndOffset
}

// Shift returns the edit moved by delta bytes.
func (e TextEdit) Shift(delta int) TextEdit {
	return TextEdit{
		StartOffset: e.StartOffset + delta,
		EndOffset:   e.EndOffset + delta,
		NewText:     e.NewText,
	}
}
