package fix_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/dslint/pkg/fix"
)

func FuzzGenerateDiff(f *testing.F) {
	f.Add([]byte(""), []byte(""))
	f.Add([]byte("const a = 1;"), []byte("const a = 1;"))
	f.Add([]byte("const a = 1;"), []byte("const a = 2;"))
	f.Add([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"))
	f.Add([]byte("{\n  labelKey: \"x\",\n  label: \"y\",\n}\n"), []byte("{\n  label: \"y\",\n}\n"))

	f.Fuzz(func(t *testing.T, original, modified []byte) {
		diff := fix.GenerateDiff("src/menu.ts", original, modified)
		if diff == nil {
			return
		}

		if diff.Path != "src/menu.ts" {
			t.Errorf("Path = %q, want src/menu.ts", diff.Path)
		}
		if !strings.HasPrefix(diff.String(), "--- a/src/menu.ts") {
			t.Errorf("diff does not start with the file header: %q", diff.String())
		}
		if diff.Additions+diff.Deletions == 0 {
			t.Error("changed content produced a diff without additions or deletions")
		}
		if len(diff.Hunks()) == 0 {
			t.Error("changed content produced a diff without hunks")
		}
	})
}

func FuzzApplyEdits(f *testing.F) {
	f.Add([]byte("const a = 1;"), 6, 7, "b")
	f.Add([]byte("{ a: 1 }"), 2, 2, "b: 2, ")
	f.Add([]byte("abcdef"), 0, 0, "prefix")
	f.Add([]byte("abcdef"), 6, 6, "suffix")
	f.Add([]byte("abcdef"), 2, 4, "")

	f.Fuzz(func(t *testing.T, content []byte, start, end int, newText string) {
		if start < 0 || end < start || end > len(content) {
			return
		}

		original := string(content)
		result := fix.ApplyEdits(content, []fix.TextEdit{
			{StartOffset: start, EndOffset: end, NewText: newText},
		})

		want := original[:start] + newText + original[end:]
		if string(result) != want {
			t.Errorf("ApplyEdits = %q, want %q", result, want)
		}
		if string(content) != original {
			t.Error("ApplyEdits modified its input")
		}
	})
}
