// Package runner spawns an external build tool and forwards its output
// line by line. rustc writes diagnostics to stderr while cargo's JSON goes
// to stdout, so both pipes are consumed and merged.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Run executes name with args and calls fn for every output line from
// stdout or stderr. Lines from the two pipes stay whole but may interleave.
// Blocks until the process exits or ctx is cancelled (which kills the
// process). Returns the child's exit code; err is non-nil only for failures
// to launch or read, not for a non-zero exit.
func Run(ctx context.Context, name string, args []string, fn func(line string)) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, fmt.Errorf("opening stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, fmt.Errorf("opening stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("starting %s: %w", name, err)
	}

	var mu sync.Mutex
	emit := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		fn(line)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return pump(stdout, emit) })
	g.Go(func() error { return pump(stderr, emit) })

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("waiting for %s: %w", name, waitErr)
	}
	if pumpErr != nil {
		return -1, fmt.Errorf("reading %s output: %w", name, pumpErr)
	}
	return 0, nil
}

// pump forwards whole lines from r to emit until EOF.
func pump(r io.Reader, emit func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	return scanner.Err()
}
