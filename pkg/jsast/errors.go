package jsast

import "fmt"

// ParseError reports that a source file could not be parsed cleanly.
// It carries the location of the first syntax error.
type ParseError struct {
	Path    string
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
