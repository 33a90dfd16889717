package nixos

import (
	"fmt"
	"strings"
)

// The rebuild tool's byte stream doubles as the completion signal: these
// exact substrings are the de facto protocol between the runner and its
// consumers. An output chunk containing any of them means the build is
// over, wherever in the chunk it appears.
const (
	sentinelSuccess = "Build completed successfully!"
	sentinelFailure = "Build failed with exit code"
	sentinelError   = "Process error:"
)

func successMessage() []byte {
	return []byte("\r\n✓ " + sentinelSuccess + "\r\n")
}

func failureMessage(exitCode int) []byte {
	return []byte(fmt.Sprintf("\r\n✗ %s: %d\r\n", sentinelFailure, exitCode))
}

func errorMessage(err error) []byte {
	return []byte(fmt.Sprintf("\r\n✗ %s %v\r\n", sentinelError, err))
}

// IsCompletion reports whether an output chunk carries one of the
// completion sentinels. The conversion from bytes is lossy by intent:
// chunks are not required to be valid UTF-8, and sentinel matching only
// needs the ASCII portion to survive.
func IsCompletion(chunk []byte) bool {
	text := string(chunk)
	return strings.Contains(text, sentinelSuccess) ||
		strings.Contains(text, sentinelFailure) ||
		strings.Contains(text, sentinelError)
}
