package reporter_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/dslint/pkg/config"
	"github.com/yaklabco/dslint/pkg/lint"
	"github.com/yaklabco/dslint/pkg/reporter"
	"github.com/yaklabco/dslint/pkg/runner"
)

func TestReporter_FacadeReturnsIssueCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := reporter.Options{
		Writer: &buf,
		Format: reporter.FormatJSON,
	}

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "src/Card.stories.tsx",
				Result: &lint.PipelineResult{
					FileResult: &lint.FileResult{
						Violations: []lint.Violation{
							{RuleName: "no-raw-tailwind-colors", Severity: config.SeverityError},
							{RuleName: "no-i18n-keys-in-stories", Severity: config.SeverityWarning},
						},
					},
				},
			},
		},
	}

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
