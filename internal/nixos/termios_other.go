//go:build !linux

package nixos

import "os"

// disableLineDiscipline is a no-op where the Linux termios ioctls are
// unavailable; the pseudo-terminal keeps its default line discipline.
func disableLineDiscipline(_ *os.File) {}
