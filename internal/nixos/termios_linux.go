//go:build linux

package nixos

import (
	"os"

	"golang.org/x/sys/unix"
)

// disableLineDiscipline clears canonical mode, local echo, and signal
// generation on the terminal so every keystroke reaches the child
// immediately and unmodified. Best effort: a terminal we cannot
// reconfigure still carries the byte stream.
func disableLineDiscipline(ptmx *os.File) {
	fd := int(ptmx.Fd())
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	tio.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	_ = unix.IoctlSetTermios(fd, unix.TCSETS, tio)
}
