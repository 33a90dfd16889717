package vterm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_FillsRowMajor_When_PrintableOnly(t *testing.T) {
	t.Parallel()

	term := New(10, 5)
	term.FeedString("abcdefghijKLMNO")

	assert.Equal(t, "abcdefghij", term.Row(0))
	assert.Equal(t, "KLMNO     ", term.Row(1))
	assert.Empty(t, term.Scrollback())

	x, y := term.Cursor()
	assert.Equal(t, 5, x)
	assert.Equal(t, 1, y)
}

func TestFeed_ScrollsExactlyOneRow_When_OneCharPastFullGrid(t *testing.T) {
	t.Parallel()

	width, height := 10, 5
	term := New(width, height)

	var sb strings.Builder
	for i := 0; i < width*height+1; i++ {
		sb.WriteByte(byte('a' + i%26))
	}
	input := sb.String()
	term.FeedString(input)

	require.Len(t, term.Scrollback(), 1)

	// The first surviving screen row is what used to be the second row.
	assert.Equal(t, input[width:2*width], term.Row(0))
	// And the evicted row is the old first row.
	var evicted strings.Builder
	for _, c := range term.Scrollback()[0] {
		evicted.WriteRune(c.Ch)
	}
	assert.Equal(t, input[:width], evicted.String())
}

func TestFeed_ScrollbackStaysBounded_When_InputIsLong(t *testing.T) {
	t.Parallel()

	term := New(4, 2, WithMaxScrollback(8))
	for i := 0; i < 500; i++ {
		term.FeedString("line\n")
		assert.LessOrEqual(t, len(term.Scrollback()), 8)
	}
}

func TestFeed_ResetsAttributes_When_SGRZero(t *testing.T) {
	t.Parallel()

	term := New(10, 5)
	term.FeedString("\x1b[1;31;44mX\x1b[0mY")

	bright := term.Screen()[0][0]
	assert.Equal(t, 1, bright.Fg)
	assert.Equal(t, 4, bright.Bg)
	assert.True(t, bright.Bold)

	plain := term.Screen()[0][1]
	assert.Equal(t, NoColor, plain.Fg)
	assert.Equal(t, NoColor, plain.Bg)
	assert.False(t, plain.Bold)
}

func TestFeed_RendersRedHi_When_SGRSequence(t *testing.T) {
	t.Parallel()

	term := New(10, 5)
	term.FeedString("\x1b[31mhi\x1b[0m\n")

	row := term.Screen()[0]
	assert.Equal(t, 'h', row[0].Ch)
	assert.Equal(t, 1, row[0].Fg)
	assert.Equal(t, 'i', row[1].Ch)
	assert.Equal(t, 1, row[1].Fg)
	for x := 2; x < 10; x++ {
		assert.Equal(t, DefaultCell(), row[x], "column %d should be default", x)
	}

	x, y := term.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
}

func TestResize_PreservesIntersection_When_Shrinking(t *testing.T) {
	t.Parallel()

	term := New(10, 5)
	term.FeedString("abcdefghij\r\nklmnopqrst\r\nuvwxyz")

	term.Resize(6, 2)

	assert.Equal(t, "abcdef", term.Row(0))
	assert.Equal(t, "klmnop", term.Row(1))

	x, y := term.Cursor()
	assert.Less(t, x, 6)
	assert.Less(t, y, 2)
}

func TestResize_PadsWithDefaults_When_Growing(t *testing.T) {
	t.Parallel()

	term := New(3, 2)
	term.FeedString("ab")

	term.Resize(5, 4)

	assert.Equal(t, "ab   ", term.Row(0))
	for y := 1; y < 4; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, DefaultCell(), term.Screen()[y][x])
		}
	}
}

func TestClear_ResetsGridAndScrollback_When_StateIsDirty(t *testing.T) {
	t.Parallel()

	term := New(4, 2)
	term.FeedString("\x1b[31m")
	for i := 0; i < 20; i++ {
		term.FeedString("x\n")
	}
	require.NotEmpty(t, term.Scrollback())

	term.Clear()

	assert.Empty(t, term.Scrollback())
	for _, row := range term.Screen() {
		for _, cell := range row {
			assert.Equal(t, DefaultCell(), cell)
		}
	}
	x, y := term.Cursor()
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestFeed_MovesCursor_When_ControlBytes(t *testing.T) {
	t.Parallel()

	term := New(20, 5)

	term.FeedString("abc\rX")
	assert.Equal(t, "Xbc", term.Row(0)[:3])

	term.FeedString("\tT")
	x, _ := term.Cursor()
	// After X at column 1, tab jumps to column 8, T advances to 9.
	assert.Equal(t, 9, x)

	term.FeedString("\x08\x08Y")
	assert.Equal(t, "YT", term.Row(0)[7:9])
}

func TestFeed_ClampsBackspace_When_AtColumnZero(t *testing.T) {
	t.Parallel()

	term := New(5, 2)
	term.FeedString("\x08\x08Z")
	assert.Equal(t, "Z", term.Row(0)[:1])
}

func TestFeed_SetsCursor_When_CSIPosition(t *testing.T) {
	t.Parallel()

	term := New(10, 5)

	term.FeedString("\x1b[3;4H")
	x, y := term.Cursor()
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)

	// Missing parameters default to 1 (home).
	term.FeedString("\x1b[H")
	x, y = term.Cursor()
	assert.Zero(t, x)
	assert.Zero(t, y)

	// Out-of-range positions clamp to the grid.
	term.FeedString("\x1b[99;99f")
	x, y = term.Cursor()
	assert.Equal(t, 9, x)
	assert.Equal(t, 4, y)
}

func TestFeed_ErasesDisplay_When_ParameterIsTwo(t *testing.T) {
	t.Parallel()

	term := New(5, 2)
	term.FeedString("hello")
	term.FeedString("\x1b[2J")
	assert.Equal(t, "     ", term.Row(0))
}

func TestFeed_IgnoresEraseDisplay_When_ParameterIsNotTwo(t *testing.T) {
	t.Parallel()

	term := New(5, 2)
	term.FeedString("hello")
	term.FeedString("\x1b[J")
	assert.Equal(t, "hello", term.Row(0))
	term.FeedString("\x1b[1J")
	assert.Equal(t, "hello", term.Row(0))
}

func TestFeed_ErasesToLineEnd_When_CSIK(t *testing.T) {
	t.Parallel()

	term := New(10, 2)
	term.FeedString("abcdefghij")
	term.FeedString("\x1b[1;4H\x1b[K")
	assert.Equal(t, "abc       ", term.Row(0))
}

func TestFeed_AppliesParamsInOrder_When_MultiParamSGR(t *testing.T) {
	t.Parallel()

	term := New(10, 2)
	term.FeedString("\x1b[31;1;42mA\x1b[22mB")

	a := term.Screen()[0][0]
	assert.Equal(t, 1, a.Fg)
	assert.Equal(t, 2, a.Bg)
	assert.True(t, a.Bold)

	b := term.Screen()[0][1]
	assert.Equal(t, 1, b.Fg)
	assert.Equal(t, 2, b.Bg)
	assert.False(t, b.Bold)
}

func TestFeed_IgnoresUnknownSGRCodes_When_Mixed(t *testing.T) {
	t.Parallel()

	term := New(10, 2)
	term.FeedString("\x1b[95;38;31mA")
	assert.Equal(t, 1, term.Screen()[0][0].Fg)
}

func TestScrollUp_MovesTopRowIntoScrollback_When_LineFeedAtBottom(t *testing.T) {
	t.Parallel()

	term := New(5, 2)
	term.FeedString("one\r\ntwo\r\nxyz")

	require.Len(t, term.Scrollback(), 1)
	assert.Equal(t, 'o', term.Scrollback()[0][0].Ch)
	assert.Equal(t, "two  ", term.Row(0))
	assert.Equal(t, "xyz  ", term.Row(1))
}

func TestNew_ClampsDimensions_When_NonPositive(t *testing.T) {
	t.Parallel()

	term := New(0, -3)
	w, h := term.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	term.FeedString("abc") // must not panic
}
