package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- E2E tests ---
// These exercise the full pipeline: stdin → detect → parse → map → render → stdout

func TestE2E_RenderPlainRustcOutput(t *testing.T) {
	input := strings.Join([]string{
		"   Compiling demo v0.1.0 (/work/demo)",
		"error[E0308]: mismatched types",
		"  --> src/main.rs:10:5",
		"   |",
		"10 |     \"foo\"",
		"   |     ^^^^^ expected `i32`, found `&str`",
		"warning: unused variable: `x`",
		"  --> src/lib.rs:3:9",
		"error: aborting due to previous error",
	}, "\n") + "\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm", "--root", t.TempDir()}, strings.NewReader(input), &stdout, &stderr)
	output := stdout.String()

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(output, "SCOPE:") {
		t.Error("missing SCOPE line")
	}
	if !strings.Contains(output, "src/main.rs") {
		t.Errorf("missing error file group; got:\n%s", output)
	}
	if !strings.Contains(output, "ERR E0308 10:5 mismatched types") {
		t.Errorf("missing diagnostic; got:\n%s", output)
	}
	if !strings.Contains(output, "WARN - 3:9 unused variable: `x`") {
		t.Errorf("missing warning; got:\n%s", output)
	}
	if strings.Contains(output, "\033[") {
		t.Error("LLM output contains ANSI escape codes")
	}
}

func TestE2E_RenderCargoJSONOutput(t *testing.T) {
	input := strings.Join([]string{
		`{"reason":"compiler-message","message":{"level":"warning","message":"unused import","code":{"code":"unused_imports"},"spans":[{"file_name":"src/lib.rs","line_start":1,"column_start":5,"is_primary":true}]}}`,
		`{"reason":"build-finished","success":true}`,
	}, "\n") + "\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm", "--root", t.TempDir()}, strings.NewReader(input), &stdout, &stderr)
	output := stdout.String()

	if code != 0 {
		t.Errorf("expected exit code 0 for warnings only, got %d; stderr: %s", code, stderr.String())
	}
	if !strings.Contains(output, "WARN unused_imports 1:5 unused import") {
		t.Errorf("missing cargo diagnostic; got:\n%s", output)
	}
}

func TestE2E_WatchInputPipedUsesBatchPath(t *testing.T) {
	// Piped stdout (bytes.Buffer) is not a TTY, so watch input renders batch.
	input := strings.Join([]string{
		"[Running `cargo check`]",
		"error: broken",
		"  --> src/main.rs:1:1",
		"[Finished running]",
	}, "\n") + "\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--root", t.TempDir()}, strings.NewReader(input), &stdout, &stderr)

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "src/main.rs") {
		t.Errorf("missing diagnostic; got:\n%s", stdout.String())
	}
}

func TestE2E_BaselineSaveThenCompare(t *testing.T) {
	root := t.TempDir()
	firstRun := "error[E0308]: mismatched types\n  --> src/main.rs:10:5\n"

	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm", "--root", root, "--baseline"}, strings.NewReader(firstRun), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1 on first run, got %d; stderr: %s", code, stderr.String())
	}

	secondRun := firstRun + "error[E0599]: no method named `foo`\n  --> src/main.rs:20:9\n"
	stdout.Reset()
	code = run([]string{"--format", "llm", "--root", root}, strings.NewReader(secondRun), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1 on second run, got %d", code)
	}
	if !strings.Contains(stdout.String(), "baseline drift") {
		t.Errorf("expected drift section; got:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "NEW error E0599") {
		t.Errorf("expected new diagnostic flagged; got:\n%s", stdout.String())
	}
}

func TestE2E_ProjectConfigSelectsCustomMatcher(t *testing.T) {
	root := t.TempDir()
	cfg := `
matcher: mytool
matchers:
  - name: mytool
    header: '^(error|warning|warn)! (?:\[(.*?)\])?(.*)$'
    location: '^at (.*):(\d+):(\d+)$'
`
	if err := os.WriteFile(filepath.Join(root, ".rustdiag.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	input := "error! mismatched\nat src/x.rs:4:2\n"
	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "llm", "--root", root}, strings.NewReader(input), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d; stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "src/x.rs") {
		t.Errorf("expected custom matcher to extract location; got:\n%s", stdout.String())
	}
}

func TestE2E_JSONFormatIsMachineReadable(t *testing.T) {
	input := "warning: unused variable\nsrc/lib.rs:3:1\n"
	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "json", "--root", t.TempDir()}, strings.NewReader(input), &stdout, &stderr)

	if code != 0 {
		t.Errorf("expected exit 0 for warnings only, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, `"type": "summary"`) || !strings.Contains(out, `"type": "problem-table"`) {
		t.Errorf("expected typed JSON patterns; got:\n%s", out)
	}
}

func TestE2E_EmptyInputFailsWithUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--root", t.TempDir()}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit 2 for empty stdin, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no input") {
		t.Errorf("expected no-input message, got: %s", stderr.String())
	}
}

func TestE2E_UnknownFormatFlagFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--format", "xml", "--root", t.TempDir()}, strings.NewReader("error: x\nsrc/a.rs:1:1\n"), &stdout, &stderr)
	if code != 2 {
		t.Errorf("expected exit 2 for unknown format, got %d", code)
	}
}

func TestE2E_VersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "rustdiag") {
		t.Errorf("expected version banner, got %q", stdout.String())
	}
}
