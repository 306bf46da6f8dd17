package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHardcodedAPIPathsRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		input   string
		options map[string]any
		want    []string
	}{
		{
			name:  "string literal",
			path:  "src/features/users/UsersPage.tsx",
			input: `const res = await fetch("/api/users");` + "\n",
			want:  []string{"/api/users"},
		},
		{
			name:  "template literal reports the static head",
			path:  "src/features/users/UserPage.tsx",
			input: "const url = `/api/users/${id}/roles`;\n",
			want:  []string{"/api/users/"},
		},
		{
			name:  "other paths are fine",
			path:  "src/App.tsx",
			input: `const a = "/dashboard"; const b = "api/users"; const c = "/apiary";` + "\n",
			want:  nil,
		},
		{
			name:  "api client directory is exempt",
			path:  "src/services/api/users.ts",
			input: `export const USERS = "/api/users";` + "\n",
			want:  nil,
		},
		{
			name:    "custom api directories",
			path:    "src/http/users.ts",
			input:   `export const USERS = "/api/users";` + "\n",
			options: map[string]any{"apiDirectories": []any{"http"}},
			want:    nil,
		},
		{
			name:    "allowed pattern",
			path:    "src/App.tsx",
			input:   `const a = "/api/health"; const b = "/api/orders";` + "\n",
			options: map[string]any{"allowedPatterns": []any{"^/api/health$"}},
			want:    []string{"/api/orders"},
		},
		{
			name:  "tests are skipped",
			path:  "src/features/users/UsersPage.test.tsx",
			input: `const res = "/api/users";` + "\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := lintSource(t, NewHardcodedAPIPathsRule(), tt.path, tt.input, tt.options)
			if tt.want == nil {
				assert.Empty(t, violations)
				return
			}
			assert.Equal(t, tt.want, dataValues(violations, "path"))
			for _, v := range violations {
				assert.Nil(t, v.Fix)
				assert.Equal(t, HardcodedAPIPathsName, v.RuleName)
			}
		})
	}
}
