package rules

import (
	"testing"

	"github.com/yaklabco/dslint/pkg/lint"
)

func TestPacks(t *testing.T) {
	packs := Packs()

	// Verify we have the expected number of packs.
	expectedCount := 3
	if len(packs) != expectedCount {
		t.Errorf("got %d packs, want %d", len(packs), expectedCount)
	}

	// Verify each pack has required fields and only known rules.
	for _, pack := range packs {
		if pack.Name == "" {
			t.Error("pack has empty name")
		}
		if pack.Description == "" {
			t.Errorf("pack %q has empty description", pack.Name)
		}
		if len(pack.Rules) == 0 {
			t.Errorf("pack %q has no rules", pack.Name)
		}

		for name, cfg := range pack.Rules {
			if _, ok := lint.DefaultCatalog.Get(name); !ok {
				t.Errorf("pack %q references unknown rule %q", pack.Name, name)
			}
			if cfg.Enabled == nil {
				t.Errorf("pack %q rule %q has nil Enabled", pack.Name, name)
			}
			if cfg.Severity == nil {
				t.Errorf("pack %q rule %q has nil Severity", pack.Name, name)
			}
		}
	}
}

func TestPackByName(t *testing.T) {
	tests := []struct {
		name  string
		want  bool
		rules int
	}{
		{"recommended", true, 5},
		{"strict", true, 5},
		{"migration", true, 5},
		{"nonexistent", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pack := PackByName(tt.name)
			if tt.want {
				if pack == nil {
					t.Errorf("PackByName(%q) returned nil, want pack", tt.name)
					return
				}
				if pack.Name != tt.name {
					t.Errorf("pack.Name = %q, want %q", pack.Name, tt.name)
				}
				if len(pack.Rules) != tt.rules {
					t.Errorf("pack %q has %d rules, want %d", tt.name, len(pack.Rules), tt.rules)
				}
			} else if pack != nil {
				t.Errorf("PackByName(%q) returned pack, want nil", tt.name)
			}
		})
	}
}

func TestPackNames(t *testing.T) {
	names := PackNames()

	expected := []string{"recommended", "strict", "migration"}
	if len(names) != len(expected) {
		t.Fatalf("got %d names, want %d", len(names), len(expected))
	}

	for i, name := range expected {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestStrictPack(t *testing.T) {
	for name, cfg := range StrictPack().Rules {
		if cfg.Enabled == nil || !*cfg.Enabled {
			t.Errorf("strict pack rule %q should be enabled", name)
		}
		if cfg.Severity == nil || *cfg.Severity != "error" {
			t.Errorf("strict pack rule %q should be an error", name)
		}
	}
}

func TestMigrationPack(t *testing.T) {
	pack := MigrationPack()

	for _, name := range []string{HardcodedAPIPathsName, DataFetchingInPresentersName} {
		cfg, ok := pack.Rules[name]
		if !ok {
			t.Errorf("migration pack missing %q", name)
			continue
		}
		if cfg.Enabled == nil || *cfg.Enabled {
			t.Errorf("migration pack rule %q should be disabled", name)
		}
	}

	for name, cfg := range pack.Rules {
		if cfg.Severity != nil && *cfg.Severity == "error" {
			t.Errorf("migration pack rule %q has severity error", name)
		}
	}
}
