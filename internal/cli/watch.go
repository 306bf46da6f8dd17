package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/dslint/internal/logging"
	"github.com/yaklabco/dslint/pkg/fsutil"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/runner"
)

// watchDebounce is how long the watcher waits for a burst of events to
// settle before re-linting.
const watchDebounce = 150 * time.Millisecond

// fileWatcher re-lints changed files. Content hashes of the last linted
// version of each file suppress runs for events that did not change the
// bytes, including the writes made by --fix.
type fileWatcher struct {
	session  *lintSession
	watcher  *fsnotify.Watcher
	hashes   map[string]uint64
	pending  map[string]struct{}
	dirRoots []string
	files    map[string]bool
	prune    []string
}

func runWatch(ctx context.Context, session *lintSession) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("create watcher: %w", err))
	}
	defer func() { _ = watcher.Close() }()

	fw := newFileWatcher(session, watcher)
	if err := fw.addRoots(); err != nil {
		return withExitCode(ExitIOError, err)
	}

	result, err := session.run(ctx, nil)
	if err != nil {
		return err
	}
	fw.rememberResult(result)

	session.logger.Info("watching for changes", logging.FieldPaths, session.opts.Paths)

	return fw.loop(ctx)
}

func newFileWatcher(session *lintSession, watcher *fsnotify.Watcher) *fileWatcher {
	prune := lint.DefaultExemptDirectories
	if session.config != nil && session.config.ExemptDirectories != nil {
		prune = session.config.ExemptDirectories
	}
	return &fileWatcher{
		session: session,
		watcher: watcher,
		hashes:  make(map[string]uint64),
		pending: make(map[string]struct{}),
		files:   make(map[string]bool),
		prune:   prune,
	}
}

// addRoots registers every directory below the lint paths. A file path
// watches its parent directory and only that file.
func (w *fileWatcher) addRoots() error {
	paths := w.session.opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(w.session.opts.WorkingDir, p)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			w.files[abs] = true
			if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
			}
			continue
		}

		w.dirRoots = append(w.dirRoots, abs)
		if err := w.addTree(abs); err != nil {
			return err
		}
	}
	return nil
}

// addTree watches root and its subdirectories, skipping hidden and exempt
// directories.
func (w *fileWatcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.skipDir(entry.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

func (w *fileWatcher) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(w.prune, name)
}

// relevant reports whether the file at path belongs to the watched lint
// targets.
func (w *fileWatcher) relevant(path string) bool {
	return w.files[path] || w.underRoot(filepath.Dir(path))
}

// underRoot reports whether dir lies below a watched directory without
// passing through a hidden or exempt directory.
func (w *fileWatcher) underRoot(dir string) bool {
	for _, root := range w.dirRoots {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		for _, segment := range strings.Split(rel, string(filepath.Separator)) {
			if segment != "." && w.skipDir(segment) {
				return false
			}
		}
		return true
	}
	return false
}

func (w *fileWatcher) loop(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
			if len(w.pending) > 0 {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.FieldError, err)

		case <-timer.C:
			if err := w.flush(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("lint run failed", logging.FieldError, err)
			}
		}
	}
}

func (w *fileWatcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(w.hashes, path)
		delete(w.pending, path)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && w.underRoot(path) {
			if err := w.addTree(path); err != nil {
				w.session.logger.Warn("watch new directory", logging.FieldPath, path, logging.FieldError, err)
			}
		}
		return
	}

	if w.relevant(path) {
		w.pending[path] = struct{}{}
	}
}

// flush lints the pending files whose content changed since the last run.
func (w *fileWatcher) flush(ctx context.Context) error {
	candidates := w.changed()
	if len(candidates) == 0 {
		return nil
	}

	opts := w.session.opts
	opts.Paths = candidates
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("discover changed files: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	w.session.logger.Info("change detected", logging.FieldFiles, len(files))

	result, err := w.session.run(ctx, files)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err != nil {
			return exitErr.Err
		}
		return err
	}
	w.rememberResult(result)
	return nil
}

// changed drains the pending set and returns the paths whose content hash
// differs from the last linted version, sorted.
func (w *fileWatcher) changed() []string {
	var out []string
	for path := range w.pending {
		content, err := os.ReadFile(path)
		if err != nil {
			delete(w.hashes, path)
			continue
		}
		if hash, ok := w.hashes[path]; ok && hash == fsutil.HashContent(content) {
			continue
		}
		out = append(out, path)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}

// rememberResult records the on-disk hash of every file of result, after
// any fixes were written.
func (w *fileWatcher) rememberResult(result *runner.Result) {
	if result == nil {
		return
	}
	for _, outcome := range result.Files {
		w.remember(outcome.Path)
	}
}

func (w *fileWatcher) remember(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		delete(w.hashes, path)
		return
	}
	w.hashes[path] = fsutil.HashContent(content)
}
