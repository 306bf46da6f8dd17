//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/dslint"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"fmt":  Lint.Fmt,
	"dog":  Dogfood.Default,
	"fuzz": Test.Fuzz,
}

// Namespace types group related targets.
type (
	Test    st.Namespace
	Lint    st.Namespace
	CI      st.Namespace
	Dogfood st.Namespace
)

// Build compiles dslint with version info. The tree-sitter grammars need
// cgo, so this always builds for the host.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building dslint...")
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"},
		"go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/dslint")
}

// Check runs format, lint, tests and the dogfood run.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Dogfood.Default)
}

// Clean removes build artifacts and scratch files left by dogfood runs.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html", dogfoodDir} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs dslint to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing dslint...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/dslint")
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Rules runs only the built-in rule and engine tests.
func (Test) Rules() error {
	return gotestsum("testname", "./pkg/lint/...")
}

// Fuzz runs each fuzz target for FUZZ_TIME (default 20s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "20s")
	targets := []struct{ pkg, name string }{
		{"./pkg/fix", "FuzzApplyEdits"},
		{"./pkg/fix", "FuzzGenerateDiff"},
		{"./pkg/fsutil", "FuzzFixWrite"},
	}
	for _, t := range targets {
		fmt.Printf("Fuzzing %s %s for %s...\n", t.pkg, t.name, fuzzTime)
		if err := sh.RunV("go", "test", t.pkg, "-run", "^$", "-fuzz", "^"+t.name+"$", "-fuzztime", fuzzTime); err != nil {
			return fmt.Errorf("fuzz %s: %w", t.name, err)
		}
	}
	return nil
}

// Bench runs the language detection benchmarks.
func (Test) Bench() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "-benchmem", "./pkg/langdetect/")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg", "stavefile.go")
}

// FmtCheck fails when any Go file is not gofmt clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "stavefile.go")
	if err != nil {
		return fmt.Errorf("gofmt check: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nrun 'stave lint:fmt'", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every check CI requires before merging.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		Dogfood.Default,
	)
	fmt.Println("CI gate passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if string(data) != string(before[name]) {
			return fmt.Errorf("%s changed after go mod tidy", name)
		}
	}
	return nil
}

// dogfoodDir holds the fixture tree the built binary is run against.
const dogfoodDir = "dogfood"

// dogfoodFixtures map a path under dogfoodDir to its content. The component
// violates the raw color rule and the nav file carries a fixable redundant
// i18n key.
var dogfoodFixtures = map[string]string{
	"src/Card.tsx":  "export function Card() {\n  return <div className=\"bg-slate-100 p-4\">card</div>;\n}\n",
	"src/nav.ts":    "export const items = [{ labelKey: \"nav.home\", label: \"Home\" }];\n",
	"docs/Card.mdx": "# Card\n\n```tsx\n<Card className=\"bg-red-500\" />\n```\n",
}

// Default builds dslint, seeds a strict config and checks the binary
// reports the raw colors and fixes the redundant key.
func (Dogfood) Default() error {
	st.Deps(Build)

	if err := seedDogfood(); err != nil {
		return err
	}
	bin, err := filepath.Abs(binary)
	if err != nil {
		return err
	}
	run := func(args ...string) (string, error) {
		return sh.Output(bin, append(args, "--color", "never")...)
	}

	if _, err := sh.Output(bin, "init", "--pack", "strict", "--force", "--output", filepath.Join(dogfoodDir, ".dslint.yml")); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	cfg := filepath.Join(dogfoodDir, ".dslint.yml")

	out, err := run("lint", "--config", cfg, "--format", "summary", dogfoodDir)
	if err == nil {
		return errors.New("lint passed on a tree with raw colors")
	}
	for _, want := range []string{"no-raw-tailwind-colors", "docs/Card.mdx", "src/Card.tsx"} {
		if !strings.Contains(out, want) {
			return fmt.Errorf("summary output lacks %q:\n%s", want, out)
		}
	}

	// The raw colors have no fix, so the run still fails after fixing.
	_, _ = run("lint", "--config", cfg, "--fix", "--no-backups", dogfoodDir)
	nav, err := os.ReadFile(filepath.Join(dogfoodDir, "src", "nav.ts"))
	if err != nil {
		return err
	}
	if strings.Contains(string(nav), "labelKey") {
		return fmt.Errorf("--fix left the redundant key in place:\n%s", nav)
	}

	fmt.Println("dogfood run passed")
	return nil
}

// Time lints DSLINT_BENCH_DIR (default: the fixture tree) with the built
// binary and prints the wall time.
func (Dogfood) Time() error {
	st.Deps(Build)
	dir := os.Getenv("DSLINT_BENCH_DIR")
	if dir == "" {
		if err := seedDogfood(); err != nil {
			return err
		}
		dir = dogfoodDir
	}

	start := time.Now()
	err := sh.RunV(binary, "lint", "--format", "summary", dir)
	fmt.Printf("Elapsed: %s\n", time.Since(start).Round(time.Millisecond))
	if err != nil {
		// Violations in the timed tree are expected.
		fmt.Printf("dslint: %v\n", err)
	}
	return nil
}

func seedDogfood() error {
	if err := sh.Rm(dogfoodDir); err != nil {
		return err
	}
	for name, content := range dogfoodFixtures {
		path := filepath.Join(dogfoodDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

// gotestsum runs go test through gotestsum with race detection, using
// STAVE_NUM_PROCESSORS (default 4) for package and test parallelism.
func gotestsum(format, pkgs string, extra ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	args := []string{"tool", "gotestsum", "-f", format, "--", "-race", "-p", nCores, "-parallel", nCores, pkgs}
	return sh.RunV("go", append(args, extra...)...)
}
