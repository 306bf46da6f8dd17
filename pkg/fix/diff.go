package fix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff represents a unified diff between original and modified content.
type Diff struct {
	// Path is the file path for the diff header.
	Path string

	// Original is the original file content.
	Original []byte

	// Modified is the modified file content.
	Modified []byte

	// Unified is the unified diff body, starting at the ---/+++ headers.
	Unified string

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// GenerateDiff creates a unified diff between original and modified content.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	if bytes.Equal(original, modified) {
		return nil
	}

	display := strings.TrimPrefix(path, "/")
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(modified)),
		FromFile: "a/" + display,
		ToFile:   "b/" + display,
		Context:  contextLines,
	})
	if err != nil || unified == "" {
		return nil
	}

	diff := &Diff{
		Path:     path,
		Original: original,
		Modified: modified,
		Unified:  unified,
	}

	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			diff.Additions++
		case strings.HasPrefix(line, "-"):
			diff.Deletions++
		}
	}

	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Unified
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Unified != ""
}

// Hunks returns the "@@" hunk headers of the diff in order.
func (d *Diff) Hunks() []string {
	if d == nil {
		return nil
	}
	var hunks []string
	for _, line := range strings.Split(d.Unified, "\n") {
		if strings.HasPrefix(line, "@@") {
			hunks = append(hunks, line)
		}
	}
	return hunks
}
