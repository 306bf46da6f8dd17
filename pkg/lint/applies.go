package lint

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Predicate decides whether a rule applies to a file. Predicates compose
// only through All, Any and Not, so grouping is always explicit.
type Predicate interface {
	Match(fc FileContext) bool
	String() string
}

type underDirectory struct{ dir string }

// UnderDirectory matches files below dir. The directory must match whole
// path segments anywhere in the path: "shared/components" matches
// "src/shared/components/Button.tsx" but not "myshared/components/x.tsx".
func UnderDirectory(dir string) Predicate {
	return underDirectory{dir: strings.Trim(path.Clean("/"+dir), "/")}
}

func (p underDirectory) Match(fc FileContext) bool {
	if p.dir == "" {
		return true
	}
	return strings.HasPrefix(fc.Path, p.dir+"/") || strings.Contains(fc.Path, "/"+p.dir+"/")
}

func (p underDirectory) String() string {
	return fmt.Sprintf("under %q", p.dir)
}

type excludingSuffixes struct{ suffixes []string }

// ExcludingSuffixes matches files whose path ends with none of the suffixes.
func ExcludingSuffixes(suffixes ...string) Predicate {
	return excludingSuffixes{suffixes: suffixes}
}

func (p excludingSuffixes) Match(fc FileContext) bool {
	for _, s := range p.suffixes {
		if strings.HasSuffix(fc.Path, s) {
			return false
		}
	}
	return true
}

func (p excludingSuffixes) String() string {
	return fmt.Sprintf("not ending in %s", quoteList(p.suffixes))
}

type matchingAny struct{ patterns []*regexp.Regexp }

// MatchingAny matches files whose path matches at least one pattern.
func MatchingAny(patterns ...*regexp.Regexp) Predicate {
	return matchingAny{patterns: patterns}
}

// MatchingAnyPattern compiles exprs and returns a MatchingAny predicate.
func MatchingAnyPattern(exprs ...string) (Predicate, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile path pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return MatchingAny(patterns...), nil
}

func (p matchingAny) Match(fc FileContext) bool {
	for _, re := range p.patterns {
		if re.MatchString(fc.Path) {
			return true
		}
	}
	return false
}

func (p matchingAny) String() string {
	exprs := make([]string, len(p.patterns))
	for i, re := range p.patterns {
		exprs[i] = re.String()
	}
	return fmt.Sprintf("matching any of %s", quoteList(exprs))
}

type allOf struct{ preds []Predicate }

// All matches when every predicate matches. All() matches everything.
func All(preds ...Predicate) Predicate {
	return allOf{preds: preds}
}

func (p allOf) Match(fc FileContext) bool {
	for _, pred := range p.preds {
		if !pred.Match(fc) {
			return false
		}
	}
	return true
}

func (p allOf) String() string {
	return joinPredicates(p.preds, " and ", "all files")
}

type anyOf struct{ preds []Predicate }

// Any matches when at least one predicate matches. Any() matches nothing.
func Any(preds ...Predicate) Predicate {
	return anyOf{preds: preds}
}

func (p anyOf) Match(fc FileContext) bool {
	for _, pred := range p.preds {
		if pred.Match(fc) {
			return true
		}
	}
	return false
}

func (p anyOf) String() string {
	return joinPredicates(p.preds, " or ", "no files")
}

type negation struct{ pred Predicate }

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return negation{pred: pred}
}

func (p negation) Match(fc FileContext) bool {
	return !p.pred.Match(fc)
}

func (p negation) String() string {
	return "not (" + p.pred.String() + ")"
}

type fileFlag struct {
	name string
	get  func(FileContext) bool
}

// TestFiles matches test files (*.test.*, *.spec.*, __tests__/).
func TestFiles() Predicate {
	return fileFlag{name: "test files", get: func(fc FileContext) bool { return fc.IsTest }}
}

// StoryFiles matches Storybook story files (*.stories.*).
func StoryFiles() Predicate {
	return fileFlag{name: "story files", get: func(fc FileContext) bool { return fc.IsStory }}
}

func (p fileFlag) Match(fc FileContext) bool { return p.get(fc) }

func (p fileFlag) String() string { return p.name }

// DescribePredicate renders a predicate for display; nil means every file.
func DescribePredicate(p Predicate) string {
	if p == nil {
		return "all files"
	}
	return p.String()
}

func joinPredicates(preds []Predicate, sep, empty string) string {
	if len(preds) == 0 {
		return empty
	}
	if len(preds) == 1 {
		return preds[0].String()
	}
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = "(" + p.String() + ")"
	}
	return strings.Join(parts, sep)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
