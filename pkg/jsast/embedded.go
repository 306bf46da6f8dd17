package jsast

// Embedded is a code block parsed out of a host document (a Markdown code
// fence). Snapshot offsets are relative to the block; Offset and Line place
// the block inside the host.
type Embedded struct {
	// Offset is the byte offset of the block's first byte in the host.
	Offset int

	// Line is the 1-based host line holding the block's first byte.
	Line int

	// Snapshot is the parsed block, nil when Err is set.
	Snapshot *FileSnapshot

	// Err is the block's parse failure, in host coordinates.
	Err error
}

// HostRange converts a block-relative range to a host range.
func (e Embedded) HostRange(r Range) Range {
	return r.Shift(e.Offset)
}

// HostPosition converts a block-relative position to a host position.
// Blocks start at column 1, so only lines move.
func (e Embedded) HostPosition(pos SourcePosition) SourcePosition {
	delta := e.Line - 1
	if pos.StartLine > 0 {
		pos.StartLine += delta
	}
	if pos.EndLine > 0 {
		pos.EndLine += delta
	}
	return pos
}
