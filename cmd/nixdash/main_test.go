package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_PrintsVersion_When_VersionFlagSet(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)

	assert.Zero(t, code)
	assert.Contains(t, stdout.String(), "nixdash")
	assert.Empty(t, stderr.String())
}

func TestRun_ReturnsUsageError_When_FlagUnknown(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-bogus"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "flag provided but not defined")
}

func TestRun_RefusesToStart_When_StdoutNotTerminal(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not a terminal")
}
