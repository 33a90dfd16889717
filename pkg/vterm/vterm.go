// Package vterm implements a small virtual terminal: it interprets a raw
// byte stream (printable text plus a useful subset of ANSI control and
// escape sequences) and maintains a fixed-size screen grid with bounded
// scrollback. It performs no I/O; callers feed bytes in and read the grid
// back out for rendering.
package vterm

import "strings"

const (
	// NoColor marks a cell with no explicit foreground or background.
	NoColor = -1

	// DefaultMaxScrollback bounds the number of retained scrollback rows.
	DefaultMaxScrollback = 10000

	// scrollbackTrimBatch is how many rows are dropped at once when the
	// scrollback exceeds its cap, so trimming is amortized rather than
	// per-row.
	scrollbackTrimBatch = 1000

	tabWidth = 8
)

// Cell is one character cell of the grid.
type Cell struct {
	Ch   rune
	Fg   int // ANSI color index 0-7, or NoColor
	Bg   int // ANSI color index 0-7, or NoColor
	Bold bool
}

// DefaultCell returns a blank cell: a space with no colors, not bold.
func DefaultCell() Cell {
	return Cell{Ch: ' ', Fg: NoColor, Bg: NoColor}
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithMaxScrollback overrides the scrollback row cap.
func WithMaxScrollback(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.maxScrollback = n
		}
	}
}

// Terminal holds the screen grid, scrollback, cursor, and the attribute
// state applied to newly written cells. It is not safe for concurrent use;
// the owning poll loop is the only mutator.
type Terminal struct {
	width  int
	height int

	screen     [][]Cell
	scrollback [][]Cell

	cursorX int
	cursorY int

	parser parser

	curFg   int
	curBg   int
	curBold bool

	maxScrollback int
}

// New creates a terminal with the given grid dimensions. Dimensions below
// 1 are clamped to 1 so the grid invariant always holds.
func New(width, height int, opts ...Option) *Terminal {
	t := &Terminal{
		curFg:         NoColor,
		curBg:         NoColor,
		maxScrollback: DefaultMaxScrollback,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.width, t.height = clampDim(width), clampDim(height)
	t.screen = newGrid(t.width, t.height)
	return t
}

func clampDim(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func newGrid(width, height int) [][]Cell {
	grid := make([][]Cell, height)
	for y := range grid {
		grid[y] = newRow(width)
	}
	return grid
}

func newRow(width int) []Cell {
	row := make([]Cell, width)
	for x := range row {
		row[x] = DefaultCell()
	}
	return row
}

// Feed interprets data as the continuation of one long-running parse and
// mutates the grid accordingly. It never fails: malformed or unsupported
// sequences are consumed without effect.
func (t *Terminal) Feed(data []byte) {
	for _, b := range data {
		t.parser.advance(t, b)
	}
}

// FeedString is Feed for string input.
func (t *Terminal) FeedString(s string) {
	t.Feed([]byte(s))
}

// Resize reallocates the grid to the new dimensions, keeping every cell
// whose coordinates fall inside both the old and new rectangle. The cursor
// is clamped to the new bounds.
func (t *Terminal) Resize(width, height int) {
	width, height = clampDim(width), clampDim(height)
	if width == t.width && height == t.height {
		return
	}

	next := newGrid(width, height)
	for y := 0; y < height && y < t.height; y++ {
		for x := 0; x < width && x < t.width; x++ {
			next[y][x] = t.screen[y][x]
		}
	}

	t.width, t.height = width, height
	t.screen = next
	t.cursorX = min(t.cursorX, width-1)
	t.cursorY = min(t.cursorY, height-1)
}

// Clear resets every cell to default, homes the cursor, and empties the
// scrollback. Attribute state is left as-is.
func (t *Terminal) Clear() {
	t.clearScreen()
	t.scrollback = nil
}

// Screen returns the live grid. Callers must treat it as read-only.
func (t *Terminal) Screen() [][]Cell {
	return t.screen
}

// Scrollback returns rows evicted from the top of the screen, oldest
// first. Callers must treat it as read-only.
func (t *Terminal) Scrollback() [][]Cell {
	return t.scrollback
}

// Size returns the grid dimensions.
func (t *Terminal) Size() (width, height int) {
	return t.width, t.height
}

// Cursor returns the cursor position.
func (t *Terminal) Cursor() (x, y int) {
	return t.cursorX, t.cursorY
}

// Row renders one screen row as plain text, mostly useful in tests.
func (t *Terminal) Row(y int) string {
	if y < 0 || y >= t.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range t.screen[y] {
		sb.WriteRune(c.Ch)
	}
	return sb.String()
}

// print writes one glyph at the cursor, wrapping and scrolling as needed.
func (t *Terminal) print(ch rune) {
	if t.cursorX >= t.width {
		t.cursorX = 0
		t.cursorY++
		if t.cursorY >= t.height {
			t.scrollUp()
		}
	}

	t.screen[t.cursorY][t.cursorX] = Cell{
		Ch:   ch,
		Fg:   t.curFg,
		Bg:   t.curBg,
		Bold: t.curBold,
	}
	t.cursorX++
}

// execute handles C0 control bytes.
func (t *Terminal) execute(b byte) {
	switch b {
	case '\n':
		t.cursorX = 0
		t.cursorY++
		if t.cursorY >= t.height {
			t.scrollUp()
		}
	case '\r':
		t.cursorX = 0
	case '\t':
		t.cursorX = (t.cursorX/tabWidth + 1) * tabWidth
		if t.cursorX >= t.width {
			t.cursorX = 0
			t.cursorY++
			if t.cursorY >= t.height {
				t.scrollUp()
			}
		}
	case 0x08: // backspace moves left without erasing
		if t.cursorX > 0 {
			t.cursorX--
		}
	}
}

// csiDispatch handles the final byte of a CSI sequence. Unsupported finals
// fall through without effect.
func (t *Terminal) csiDispatch(params []int, final byte) {
	switch final {
	case 'H', 'f':
		row := csiParam(params, 0, 1)
		col := csiParam(params, 1, 1)
		t.cursorY = clamp(row-1, 0, t.height-1)
		t.cursorX = clamp(col-1, 0, t.width-1)
	case 'J':
		// Only full-display erase is modeled.
		if csiParam(params, 0, 0) == 2 {
			t.clearScreen()
		}
	case 'K':
		for x := t.cursorX; x < t.width; x++ {
			t.screen[t.cursorY][x] = DefaultCell()
		}
	case 'm':
		t.applySGR(params)
	}
}

func (t *Terminal) applySGR(params []int) {
	if len(params) == 0 {
		t.resetAttrs()
		return
	}
	for _, p := range params {
		switch {
		case p == 0:
			t.resetAttrs()
		case p == 1:
			t.curBold = true
		case p == 22:
			t.curBold = false
		case p >= 30 && p <= 37:
			t.curFg = p - 30
		case p >= 40 && p <= 47:
			t.curBg = p - 40
		}
	}
}

func (t *Terminal) resetAttrs() {
	t.curFg = NoColor
	t.curBg = NoColor
	t.curBold = false
}

// scrollUp moves the top screen row into the scrollback and appends a
// fresh row at the bottom. This is the only path by which rows enter the
// scrollback.
func (t *Terminal) scrollUp() {
	top := t.screen[0]
	t.screen = append(t.screen[1:], newRow(t.width))
	t.scrollback = append(t.scrollback, top)

	if len(t.scrollback) > t.maxScrollback {
		drop := scrollbackTrimBatch
		if drop > len(t.scrollback) {
			drop = len(t.scrollback)
		}
		t.scrollback = append([][]Cell(nil), t.scrollback[drop:]...)
	}

	t.cursorY = t.height - 1
}

func (t *Terminal) clearScreen() {
	for y := range t.screen {
		for x := range t.screen[y] {
			t.screen[y][x] = DefaultCell()
		}
	}
	t.cursorX = 0
	t.cursorY = 0
}

// csiParam returns params[idx], substituting def when the parameter is
// absent or zero (a zero parameter means "default" in CSI).
func csiParam(params []int, idx, def int) int {
	if idx >= len(params) || params[idx] == 0 {
		return def
	}
	return params[idx]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
