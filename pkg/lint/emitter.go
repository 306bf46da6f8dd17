package lint

import (
	"fmt"
	"slices"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/fix"
)

// FormattedMessage is a violation rendered for reporting.
type FormattedMessage struct {
	RuleName  string
	Severity  config.Severity
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Message   string
	Fixable   bool
	Crashed   bool
}

// Report renders violations in the order received.
func Report(violations []Violation) []FormattedMessage {
	out := make([]FormattedMessage, 0, len(violations))
	for i := range violations {
		v := &violations[i]
		out = append(out, FormattedMessage{
			RuleName:  v.RuleName,
			Severity:  v.Severity,
			Line:      v.Location.Position.StartLine,
			Column:    v.Location.Position.StartColumn,
			EndLine:   v.Location.Position.EndLine,
			EndColumn: v.Location.Position.EndColumn,
			Message:   v.Message,
			Fixable:   v.HasFix(),
			Crashed:   v.Crashed,
		})
	}
	return out
}

// FixResult is the outcome of ApplyFixes.
type FixResult struct {
	// FixedText is the source with every fix applied.
	FixedText []byte

	// AppliedCount is the number of violations whose fix was applied.
	AppliedCount int

	// SkippedCount is the number of violations without a fix.
	SkippedCount int

	// Edits are the applied edits, sorted by start offset.
	Edits []fix.TextEdit
}

// OverlappingFixError reports two fixes that would corrupt each other.
type OverlappingFixError struct {
	FirstRule  string
	First      fix.TextEdit
	SecondRule string
	Second     fix.TextEdit
}

func (e *OverlappingFixError) Error() string {
	return fmt.Sprintf("overlapping fixes: %s [%d:%d] and %s [%d:%d]",
		e.FirstRule, e.First.StartOffset, e.First.EndOffset,
		e.SecondRule, e.Second.StartOffset, e.Second.EndOffset)
}

type ownedEdit struct {
	rule string
	edit fix.TextEdit
}

// ApplyFixes applies the fixes of every violation carrying one, in a single
// pass spliced from the end of the source backwards.
//
// If any two edits overlap, nothing is applied: FixedText is an unchanged
// copy of source and the error is an *OverlappingFixError. Edits outside
// the source return a *fix.ValidationError the same way.
func ApplyFixes(source []byte, violations []Violation) (FixResult, error) {
	unchanged := FixResult{FixedText: slices.Clone(source), SkippedCount: len(violations)}

	var edits []ownedEdit
	var applied int
	for i := range violations {
		v := &violations[i]
		if !v.HasFix() {
			continue
		}
		applied++
		for _, e := range v.Fix {
			edits = append(edits, ownedEdit{rule: v.RuleName, edit: e})
		}
	}

	if len(edits) == 0 {
		return unchanged, nil
	}

	plain := make([]fix.TextEdit, len(edits))
	for i, oe := range edits {
		plain[i] = oe.edit
	}
	if err := fix.ValidateEdits(plain, len(source)); err != nil {
		return unchanged, fmt.Errorf("apply fixes: %w", err)
	}

	slices.SortStableFunc(edits, func(a, b ownedEdit) int {
		if a.edit.StartOffset != b.edit.StartOffset {
			return a.edit.StartOffset - b.edit.StartOffset
		}
		return a.edit.EndOffset - b.edit.EndOffset
	})

	// widest tracks the edit reaching furthest right so far, which catches
	// overlaps between non-neighbouring edits.
	widest := edits[0]
	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1], edits[i]
		switch {
		case prev.edit.Overlaps(cur.edit):
			return unchanged, &OverlappingFixError{
				FirstRule: prev.rule, First: prev.edit, SecondRule: cur.rule, Second: cur.edit,
			}
		case widest.edit.Overlaps(cur.edit):
			return unchanged, &OverlappingFixError{
				FirstRule: widest.rule, First: widest.edit, SecondRule: cur.rule, Second: cur.edit,
			}
		}
		if cur.edit.EndOffset > widest.edit.EndOffset {
			widest = cur
		}
	}

	for i, oe := range edits {
		plain[i] = oe.edit
	}

	return FixResult{
		FixedText:    fix.ApplyEdits(source, plain),
		AppliedCount: applied,
		SkippedCount: len(violations) - applied,
		Edits:        plain,
	}, nil
}
