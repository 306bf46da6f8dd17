package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/dslint/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("replaces content and applies mode", func(t *testing.T) {
		t.Parallel()

		path := writeSource(t, "nav.ts", navSource)
		fixed := []byte(`export const items = [{ label: "Home" }];` + "\n")

		if err := fsutil.WriteAtomic(context.Background(), path, fixed, 0o600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(fixed) {
			t.Errorf("content = %q, want %q", got, fixed)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if stat.Mode().Perm() != 0o600 {
			t.Errorf("mode = %v, want 0600", stat.Mode().Perm())
		}
		assertOnlyFiles(t, filepath.Dir(path), "nav.ts")
	})

	t.Run("zero mode uses the default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "Card.tsx")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("export {};\n"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		stat, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if stat.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", stat.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})

	t.Run("failed rename leaves no temp file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := filepath.Join(dir, "components")
		if err := os.Mkdir(target, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(target, "Card.tsx"), nil, 0o644); err != nil {
			t.Fatal(err)
		}

		if err := fsutil.WriteAtomic(context.Background(), target, []byte("x"), 0o644); err == nil {
			t.Fatal("WriteAtomic() over a non-empty directory succeeded")
		}
		assertOnlyFiles(t, dir, "components")
	})

	t.Run("canceled context writes nothing", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "Card.tsx")
		if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0o644); !errors.Is(err, context.Canceled) {
			t.Fatalf("WriteAtomic() error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("file exists after canceled write: %v", err)
		}
	})
}

func assertOnlyFiles(t *testing.T, dir string, want ...string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != len(want) {
		t.Fatalf("directory holds %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("directory holds %v, want %v", names, want)
		}
	}
}
