package lint

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultExemptDirectories are never linted.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultExemptDirectories = []string{
	"node_modules",
	"dist",
	"build",
	"coverage",
	"storybook-static",
}

//nolint:gochecknoglobals // Compiled once.
var (
	testFilePattern  = regexp.MustCompile(`\.(test|spec)\.[cm]?[jt]sx?$`)
	storyFilePattern = regexp.MustCompile(`\.stories\.([cm]?[jt]sx?|mdx)$`)
)

// FileContext is the per-file information predicates and rules see. It is
// computed once at the start of processing a file.
type FileContext struct {
	// Path is the file path with forward slashes.
	Path string

	// IsTest is true for unit test files.
	IsTest bool

	// IsStory is true for Storybook story files.
	IsStory bool

	// IsExempt is true for files inside an exempt directory.
	IsExempt bool
}

// NewFileContext derives a FileContext from a path. exemptDirs lists
// directory names whose contents are exempt from every rule.
func NewFileContext(path string, exemptDirs []string) FileContext {
	p := filepath.ToSlash(path)
	p = strings.TrimPrefix(p, "./")

	fc := FileContext{
		Path:    p,
		IsTest:  testFilePattern.MatchString(p) || hasSegment(p, "__tests__"),
		IsStory: storyFilePattern.MatchString(p),
	}

	for _, dir := range exemptDirs {
		if hasSegment(p, dir) {
			fc.IsExempt = true
			break
		}
	}

	return fc
}

// hasSegment reports whether dir is a directory segment of p.
func hasSegment(p, dir string) bool {
	if dir == "" {
		return false
	}
	return strings.HasPrefix(p, dir+"/") || strings.Contains(p, "/"+dir+"/")
}
