//go:build unix

package runner_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gentoo90/rust-analyzer/pkg/runner"
)

func TestRun_MergesStdoutAndStderr(t *testing.T) {
	t.Parallel()

	var lines []string
	code, err := runner.Run(context.Background(), "sh",
		[]string{"-c", "echo out; echo err >&2"},
		func(line string) { lines = append(lines, line) },
	)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	sort.Strings(lines)
	assert.Equal(t, []string{"err", "out"}, lines)
}

func TestRun_ReturnsChildExitCodeWithoutError(t *testing.T) {
	t.Parallel()

	code, err := runner.Run(context.Background(), "sh",
		[]string{"-c", "exit 3"}, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRun_LaunchFailureIsAnError(t *testing.T) {
	t.Parallel()

	_, err := runner.Run(context.Background(), "definitely-not-a-command-xyz", nil, func(string) {})
	assert.Error(t, err)
}

func TestRun_CancelKillsProcess(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = runner.Run(ctx, "sleep", []string{"30"}, func(string) {})
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
