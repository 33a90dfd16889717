// Package session orchestrates one rebuild attempt at a time: it
// validates the target, owns the channel endpoints returned by the
// runner, feeds received output into the virtual terminal, detects
// completion, and implements the cancel and quit-confirmation policy.
package session

import (
	"errors"
	"fmt"

	"github.com/dkoosis/nixdash/internal/nixos"
	"github.com/dkoosis/nixdash/pkg/vterm"
)

// ErrNotConfigured is returned by Start for hosts without a connection.
// The session stays idle and no process is spawned.
var ErrNotConfigured = errors.New("host is not configured")

// Build is the channel bridge the session drives. *nixos.Build satisfies
// it; tests substitute their own.
type Build interface {
	Output() <-chan []byte
	Input() chan<- []byte
	Close()
}

// Runner launches a build. The indirection keeps process spawning out of
// the session's unit tests.
type Runner func(nixos.Command) Build

// QuitState is the two-step quit confirmation: the first quit request
// during a build only arms the confirmation, any other user action
// disarms it.
type QuitState int

const (
	QuitClear QuitState = iota
	QuitPending
)

// Session is the build orchestrator. It is owned by the UI loop and is
// not safe for concurrent use.
type Session struct {
	term   *vterm.Terminal
	runner Runner

	build Build // nil while idle

	inputMode    bool
	scrollOffset int
	quit         QuitState
}

// New creates an idle session writing into term.
func New(term *vterm.Terminal, runner Runner) *Session {
	return &Session{term: term, runner: runner}
}

// Terminal exposes the virtual terminal for rendering.
func (s *Session) Terminal() *vterm.Terminal {
	return s.term
}

// Building reports whether a build's channels are live.
func (s *Session) Building() bool {
	return s.build != nil
}

// InputMode reports whether keystrokes are routed to the process.
func (s *Session) InputMode() bool {
	return s.inputMode
}

// ToggleInputMode flips keystroke routing; it has no effect while idle.
func (s *Session) ToggleInputMode() {
	if s.build != nil {
		s.inputMode = !s.inputMode
	}
}

// LeaveInputMode routes keystrokes back to the UI.
func (s *Session) LeaveInputMode() {
	s.inputMode = false
}

// Start launches a rebuild. Starting while one is already running is a
// no-op. An unconfigured target appends a single diagnostic line and
// returns ErrNotConfigured without spawning anything.
func (s *Session) Start(cmd nixos.Command) error {
	if s.build != nil {
		return nil
	}
	if !cmd.Connection.Configured() {
		s.term.FeedString(fmt.Sprintf("Error: host %s is not configured\r\n", cmd.ConfigName))
		return ErrNotConfigured
	}

	s.term.Clear()
	s.term.FeedString(fmt.Sprintf("Starting %s for %s (%s)...\r\n",
		cmd.Operation, cmd.ConfigName, cmd.Connection.Display()))

	s.build = s.runner(cmd)
	s.inputMode = false
	s.scrollOffset = 0
	return nil
}

// Poll drains every output chunk currently available, feeding each into
// the terminal in arrival order. The first chunk carrying a completion
// sentinel ends the build: the channel handles are dropped and any chunks
// still queued behind it are left undrained. Poll never blocks.
func (s *Session) Poll() {
	if s.build == nil {
		return
	}
	for {
		select {
		case chunk := <-s.build.Output():
			s.term.Feed(chunk)
			if nixos.IsCompletion(chunk) {
				s.finish()
				return
			}
		default:
			return
		}
	}
}

// Cancel detaches a running build and appends a cancellation notice. The
// process itself is not signaled; it keeps running detached until it
// exits on its own. Cancel while idle is a no-op.
func (s *Session) Cancel() {
	if s.build == nil {
		return
	}
	s.finish()
	s.term.FeedString("\r\n✗ Build cancelled\r\n")
}

// SendInput forwards keystrokes to the process, best effort: while idle,
// outside input mode, or against a full channel the bytes are dropped
// rather than blocking the UI.
func (s *Session) SendInput(data []byte) {
	if s.build == nil || !s.inputMode {
		return
	}
	select {
	case s.build.Input() <- data:
	default:
	}
}

// RequestQuit implements the two-step quit policy. It returns true when
// the program may exit: immediately while idle, or on the second request
// while building (which also cancels the build). The first request while
// building arms the confirmation and appends a warning line.
func (s *Session) RequestQuit() bool {
	if s.build == nil {
		return true
	}
	if s.quit == QuitPending {
		s.Cancel()
		return true
	}
	s.quit = QuitPending
	s.term.FeedString("\r\n⚠ Build in progress - press q again to quit\r\n")
	return false
}

// QuitPending reports whether the next quit request will exit.
func (s *Session) QuitPending() bool {
	return s.quit == QuitPending
}

// NoteUserAction disarms a pending quit confirmation. Call it from every
// state-changing key handler other than quit itself.
func (s *Session) NoteUserAction() {
	s.quit = QuitClear
}

// ScrollOffset is how many lines the view is scrolled up from live; 0
// means live.
func (s *Session) ScrollOffset() int {
	return s.scrollOffset
}

// ScrollUp scrolls the view one line towards older output, clamped to
// the retained history.
func (s *Session) ScrollUp() {
	if s.scrollOffset < s.maxScroll() {
		s.scrollOffset++
	}
}

// ScrollDown scrolls one line back towards live output.
func (s *Session) ScrollDown() {
	if s.scrollOffset > 0 {
		s.scrollOffset--
	}
}

// ScrollToTop jumps to the oldest retained line.
func (s *Session) ScrollToTop() {
	s.scrollOffset = s.maxScroll()
}

// ScrollToLive returns to the live view.
func (s *Session) ScrollToLive() {
	s.scrollOffset = 0
}

func (s *Session) maxScroll() int {
	_, height := s.term.Size()
	total := len(s.term.Scrollback()) + height
	if total <= height {
		return 0
	}
	return total - 1
}

func (s *Session) finish() {
	s.build.Close()
	s.build = nil
	s.inputMode = false
}
