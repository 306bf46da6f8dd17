package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/dslint/pkg/lint"
)

func defaultPruneDirs() []string {
	return slices.Clone(lint.DefaultExemptDirectories)
}

// Discover finds source and documentation files matching opts under the
// given working directory. It returns a deterministically sorted list of
// absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(workDir, opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			// Explicit files skip the prune list but not the exclude globs.
			if m.matchesFile(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := m.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// matcher holds the compiled discovery criteria of one run.
type matcher struct {
	workDir        string
	extensions     []string
	include        globSet
	exclude        globSet
	prune          []string
	followSymlinks bool
}

func newMatcher(workDir string, opts Options) (*matcher, error) {
	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("include pattern: %w", err)
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("exclude pattern: %w", err)
	}

	extensions := make([]string, 0, len(opts.effectiveExtensions()))
	for _, ext := range opts.effectiveExtensions() {
		extensions = append(extensions, strings.ToLower(ext))
	}

	return &matcher{
		workDir:        workDir,
		extensions:     extensions,
		include:        include,
		exclude:        exclude,
		prune:          opts.effectivePruneDirs(),
		followSymlinks: opts.FollowSymlinks,
	}, nil
}

// walk recursively collects matching files below root.
func (m *matcher) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && m.skipDir(path, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !m.followSymlinks || m.skipDir(path, entry.Name()) {
					return nil
				}
				// Walk the target; WalkDir uses Lstat on its root.
				subFiles, err := m.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if m.matchesFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// skipDir reports whether a directory below the walk root is skipped:
// hidden directories, pruned names such as node_modules, and excluded paths.
func (m *matcher) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") || slices.Contains(m.prune, name) {
		return true
	}
	return m.exclude.match(m.rel(path))
}

// matchesFile checks if a file path matches the inclusion criteria.
func (m *matcher) matchesFile(path string) bool {
	if !hasMatchingExtension(path, m.extensions) || isDeclarationFile(path) {
		return false
	}

	relPath := m.rel(path)
	if m.exclude.match(relPath) {
		return false
	}
	if len(m.include) > 0 && !m.include.match(relPath) {
		return false
	}
	return true
}

func (m *matcher) rel(path string) string {
	relPath, err := filepath.Rel(m.workDir, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// hasMatchingExtension checks if the file has one of the lowercase extensions.
func hasMatchingExtension(path string, extensions []string) bool {
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// isDeclarationFile reports TypeScript declaration files (*.d.ts), which
// hold types only.
func isDeclarationFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(base, ".d.ts") || strings.HasSuffix(base, ".d.mts") || strings.HasSuffix(base, ".d.cts")
}

// globPattern is one compiled include or exclude pattern.
type globPattern struct {
	glob glob.Glob
	// baseOnly patterns have no slash and match the file name alone.
	baseOnly bool
	// dir is set for "dir/**" patterns, which also match dir itself.
	dir string
}

type globSet []globPattern

// compileGlobs compiles slash-separated glob patterns. "*" stays within one
// path segment and "**" spans segments.
func compileGlobs(patterns []string) (globSet, error) {
	set := make(globSet, 0, len(patterns))
	for _, raw := range patterns {
		pattern := strings.TrimPrefix(filepath.ToSlash(raw), "./")
		if pattern == "" {
			continue
		}

		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", raw, err)
		}

		p := globPattern{glob: g, baseOnly: !strings.Contains(pattern, "/")}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.ContainsAny(dir, "*?[{") {
			p.dir = dir
		}
		set = append(set, p)

		// "**/x" also matches x at the top level.
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			more, err := compileGlobs([]string{rest})
			if err != nil {
				return nil, err
			}
			set = append(set, more...)
		}
	}
	return set, nil
}

func (s globSet) match(relPath string) bool {
	base := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		base = relPath[idx+1:]
	}

	for _, p := range s {
		switch {
		case p.dir != "" && relPath == p.dir:
			return true
		case p.baseOnly && p.glob.Match(base):
			return true
		case p.glob.Match(relPath):
			return true
		}
	}
	return false
}
