//go:build mage

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/magefile/mage/sh"
)

const binary = "bin/nixdash"

// Default target - build the binary
var Default = Build

// Build compiles the nixdash binary with version metadata stamped in.
func Build() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		commit = "unknown"
	}
	ldflags := fmt.Sprintf(
		"-X github.com/dkoosis/nixdash/internal/version.Version=%s "+
			"-X github.com/dkoosis/nixdash/internal/version.CommitHash=%s "+
			"-X github.com/dkoosis/nixdash/internal/version.BuildDate=%s",
		versionString(), commit, time.Now().UTC().Format(time.RFC3339))
	return sh.Run("go", "build", "-ldflags", ldflags, "-o", binary, "./cmd/nixdash")
}

// Test runs the full test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet and staticcheck when available.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("staticcheck", "-version"); err != nil {
		fmt.Println("staticcheck not installed, skipping")
		return nil
	}
	return sh.RunV("staticcheck", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll("bin")
}

func versionString() string {
	tag, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return "dev"
	}
	return tag
}
