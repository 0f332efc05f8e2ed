package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentoo90/rust-analyzer/pkg/baseline"
	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
	"github.com/gentoo90/rust-analyzer/pkg/mapper"
	"github.com/gentoo90/rust-analyzer/pkg/pattern"
)

func TestFromDiagnostics_ProducesSummaryThenTables_When_ProblemsExist(t *testing.T) {
	t.Parallel()

	diags := []diagnostic.Diagnostic{
		{Severity: diagnostic.SevWarning, Message: "unused variable", File: "src/lib.rs", Line: 3, Column: 1},
		{Severity: diagnostic.SevError, Code: "E0308", Message: "mismatched types", File: "src/main.rs", Line: 10, Column: 5},
	}

	patterns := mapper.FromDiagnostics(diags, nil)
	require.Len(t, patterns, 3)

	sum, ok := patterns[0].(*pattern.Summary)
	require.True(t, ok, "first pattern must be the summary")
	require.Len(t, sum.Metrics, 3)
	assert.Equal(t, "1", sum.Metrics[0].Value)
	assert.Equal(t, "error", sum.Metrics[0].Kind)
	assert.Equal(t, "1", sum.Metrics[1].Value)

	// File with the error sorts ahead of the warning-only file.
	first, ok := patterns[1].(*pattern.ProblemTable)
	require.True(t, ok)
	assert.Equal(t, "src/main.rs", first.Label)
	assert.True(t, first.HasError)
	require.Len(t, first.Problems, 1)
	assert.Equal(t, "E0308", first.Problems[0].Code)

	second, ok := patterns[2].(*pattern.ProblemTable)
	require.True(t, ok)
	assert.Equal(t, "src/lib.rs", second.Label)
	assert.False(t, second.HasError)
}

func TestFromDiagnostics_SummaryShowsClean_When_NoProblems(t *testing.T) {
	t.Parallel()

	patterns := mapper.FromDiagnostics(nil, nil)
	require.Len(t, patterns, 1)

	sum, ok := patterns[0].(*pattern.Summary)
	require.True(t, ok)
	require.Len(t, sum.Metrics, 1)
	assert.Equal(t, "success", sum.Metrics[0].Kind)
}

func TestFromDiagnostics_AppendsComparison_When_BaselineDrifted(t *testing.T) {
	t.Parallel()

	diags := []diagnostic.Diagnostic{
		{Severity: diagnostic.SevError, Code: "E0599", File: "src/main.rs", Line: 7, Column: 9},
	}
	diff := &baseline.Diff{
		New:   diags,
		Fixed: []diagnostic.Diagnostic{{Severity: diagnostic.SevWarning, File: "src/lib.rs", Line: 1, Column: 1}},
	}

	patterns := mapper.FromDiagnostics(diags, diff)
	last, ok := patterns[len(patterns)-1].(*pattern.Comparison)
	require.True(t, ok, "comparison must be the final pattern")
	require.Len(t, last.New, 1)
	assert.Equal(t, "src/main.rs:7:9", last.New[0].Location)
	require.Len(t, last.Fixed, 1)
	assert.Equal(t, "warning", last.Fixed[0].Severity)
}

func TestFromDiagnostics_OmitsComparison_When_NoDrift(t *testing.T) {
	t.Parallel()

	patterns := mapper.FromDiagnostics(nil, &baseline.Diff{})
	for _, p := range patterns {
		_, isComparison := p.(*pattern.Comparison)
		assert.False(t, isComparison)
	}
}

func TestExitCode_ReflectsErrorPresence(t *testing.T) {
	t.Parallel()

	warnOnly := mapper.FromDiagnostics([]diagnostic.Diagnostic{
		{Severity: diagnostic.SevWarning, File: "a.rs"},
	}, nil)
	assert.Equal(t, 0, mapper.ExitCode(warnOnly))

	withError := mapper.FromDiagnostics([]diagnostic.Diagnostic{
		{Severity: diagnostic.SevError, File: "a.rs"},
	}, nil)
	assert.Equal(t, 1, mapper.ExitCode(withError))

	assert.Equal(t, 1, mapper.ExitCode([]pattern.Pattern{&pattern.Error{Message: "boom"}}))
}
