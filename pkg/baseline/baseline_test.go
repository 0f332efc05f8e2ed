package baseline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentoo90/rust-analyzer/pkg/baseline"
	"github.com/gentoo90/rust-analyzer/pkg/diagnostic"
)

func TestSaveLoad_RoundTripsDiagnostics(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	diags := []diagnostic.Diagnostic{
		{Severity: diagnostic.SevError, Code: "E0308", Message: "mismatched types", File: "src/main.rs", Line: 10, Column: 5},
		{Severity: diagnostic.SevWarning, Message: "unused variable", File: "src/lib.rs", Line: 3, Column: 1},
	}
	require.NoError(t, baseline.Save(dir, diags))

	loaded, found, err := baseline.Load(dir)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, diags, loaded)
}

func TestLoad_MissingBaselineIsNotAnError(t *testing.T) {
	t.Parallel()
	loaded, found, err := baseline.Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, loaded)
}

func TestLoad_CorruptFileReportsError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baseline.mp"), []byte("not msgpack"), 0o644))

	_, _, err := baseline.Load(dir)
	assert.Error(t, err)
}

func TestComputeDiff_ReportsNewAndFixed(t *testing.T) {
	t.Parallel()
	stays := diagnostic.Diagnostic{Severity: diagnostic.SevError, Code: "E0308", File: "a.rs", Line: 1, Column: 1}
	fixed := diagnostic.Diagnostic{Severity: diagnostic.SevWarning, File: "b.rs", Line: 2, Column: 2}
	fresh := diagnostic.Diagnostic{Severity: diagnostic.SevError, Code: "E0599", File: "c.rs", Line: 3, Column: 3}

	diff := baseline.ComputeDiff(
		[]diagnostic.Diagnostic{stays, fixed},
		[]diagnostic.Diagnostic{stays, fresh},
	)

	require.Len(t, diff.New, 1)
	assert.Equal(t, fresh, diff.New[0])
	require.Len(t, diff.Fixed, 1)
	assert.Equal(t, fixed, diff.Fixed[0])
	assert.False(t, diff.Empty())
}

func TestComputeDiff_RewordedMessageIsNotDrift(t *testing.T) {
	t.Parallel()
	old := diagnostic.Diagnostic{Severity: diagnostic.SevError, Code: "E0308", Message: "old wording", File: "a.rs", Line: 1, Column: 1}
	cur := old
	cur.Message = "new wording"

	diff := baseline.ComputeDiff([]diagnostic.Diagnostic{old}, []diagnostic.Diagnostic{cur})
	assert.True(t, diff.Empty())
}
