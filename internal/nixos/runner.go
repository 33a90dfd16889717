package nixos

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

const (
	// channelDepth bounds both bridge channels. A slow consumer stalls
	// the reader worker instead of growing memory without bound.
	channelDepth = 100

	readBufSize = 8192
)

// Build is one spawned rebuild bridged to channel endpoints. Output
// delivers raw byte chunks from the pseudo-terminal in read order,
// terminated by exactly one synthetic completion message; Input accepts
// raw bytes to forward to the process. Close detaches the bridge: the
// workers stop forwarding, but the child process is not signaled.
type Build struct {
	output chan []byte
	input  chan []byte
	stop   chan struct{}

	closeOnce sync.Once
}

// Start spawns the rebuild tool on a fresh pseudo-terminal and returns
// the channel bridge immediately. Failures to allocate the terminal or
// launch the process are reported in-stream as a completion message, so
// a failed spawn reads like an immediately failed build.
func Start(cmd Command) *Build {
	b := &Build{
		output: make(chan []byte, channelDepth),
		input:  make(chan []byte, channelDepth),
		stop:   make(chan struct{}),
	}
	go b.run(cmd)
	return b
}

// Output is the receiving end of the process byte stream.
func (b *Build) Output() <-chan []byte {
	return b.output
}

// Input is the sending end for keystrokes bound for the process.
func (b *Build) Input() chan<- []byte {
	return b.input
}

// Close releases both workers. Safe to call more than once and
// concurrently with delivery.
func (b *Build) Close() {
	b.closeOnce.Do(func() { close(b.stop) })
}

func (b *Build) run(cmd Command) {
	proc := exec.Command(rebuildTool, cmd.Args()...)
	proc.Env = append(os.Environ(), "TERM="+termType())

	ptmx, tty, err := pty.Open()
	if err != nil {
		b.send(errorMessage(fmt.Errorf("allocating pty: %w", err)))
		return
	}
	defer ptmx.Close()

	_ = pty.Setsize(ptmx, &pty.Winsize{Rows: cmd.Rows, Cols: cmd.Cols})

	// Raw delivery before the child ever sees the terminal: no local
	// echo, no line buffering, no signal keys. Password prompts need
	// byte-exact relay without echo duplication.
	disableLineDiscipline(ptmx)

	proc.Stdin, proc.Stdout, proc.Stderr = tty, tty, tty
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	if err := proc.Start(); err != nil {
		_ = tty.Close()
		b.send(errorMessage(fmt.Errorf("spawning %s: %w", rebuildTool, err)))
		return
	}
	// Only the child holds the slave side now; when it exits, the
	// reader's next master read fails and the read loop ends.
	_ = tty.Close()

	var readerDone sync.WaitGroup
	readerDone.Add(1)
	go b.readLoop(ptmx, &readerDone)
	go b.writeLoop(ptmx)

	waitErr := proc.Wait()
	readerDone.Wait()

	switch {
	case waitErr == nil:
		b.send(successMessage())
	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			b.send(failureMessage(exitErr.ExitCode()))
		} else {
			b.send(errorMessage(waitErr))
		}
	}

	// Unblocks the writer; the consumer may also have closed us already.
	b.Close()
}

// readLoop owns the read half of the master: it forwards every non-empty
// chunk until end-of-stream, a read error, or a detached consumer.
func (b *Build) readLoop(ptmx *os.File, done *sync.WaitGroup) {
	defer done.Done()
	buf := make([]byte, readBufSize)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if !b.send(chunk) {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// writeLoop owns the write half of the master: it forwards queued input
// until the bridge is detached or a write fails.
func (b *Build) writeLoop(ptmx *os.File) {
	for {
		select {
		case data, ok := <-b.input:
			if !ok {
				return
			}
			if _, err := ptmx.Write(data); err != nil {
				return
			}
		case <-b.stop:
			return
		}
	}
}

// send delivers a chunk on the output channel, honoring backpressure.
// It reports false once the bridge has been detached.
func (b *Build) send(chunk []byte) bool {
	select {
	case b.output <- chunk:
		return true
	case <-b.stop:
		return false
	}
}

func termType() string {
	if term := os.Getenv("TERM"); term != "" {
		return term
	}
	return "xterm-256color"
}
