//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/gentoo90/rust-analyzer"
	binPath    = "bin/rustdiag"
)

// Default target - build the binary
var Default = Build

// Build builds the rustdiag binary with version metadata baked in.
func Build() error {
	version := gitVersion()
	commit := gitCommit()
	date := time.Now().UTC().Format(time.RFC3339)

	ldflags := fmt.Sprintf("-s -w -X '%s/internal/version.Version=%s' -X '%s/internal/version.CommitHash=%s' -X '%s/internal/version.BuildDate=%s'",
		modulePath, version, modulePath, commit, modulePath, date)

	fmt.Println("Building rustdiag...")
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/rustdiag")
}

// Test runs the full test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("bin")
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs every linter
func (Lint) All() error {
	mg.Deps(Lint.Vet, Lint.Format)
	if err := sh.RunV("staticcheck", "./..."); err != nil {
		fmt.Fprintln(os.Stderr, "staticcheck unavailable or failed (install: go install honnef.co/go/tools/cmd/staticcheck@latest)")
		return err
	}
	return nil
}

// Format checks code formatting
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty", "--match=v*").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(out))
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
