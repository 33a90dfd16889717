package vterm

import "unicode/utf8"

// performer receives the actions decoded by the parser. Keeping the parser
// and its target on opposite sides of this interface means advance is a
// function over (parser state, target state, byte) with no hidden
// self-reference.
type performer interface {
	print(ch rune)
	execute(b byte)
	csiDispatch(params []int, final byte)
}

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
	stateDCS
)

const maxCSIParams = 16

// parser is an incremental decoder for the byte stream. The zero value is
// ready to use and carries state across Feed calls, so sequences split
// over chunk boundaries parse correctly.
type parser struct {
	state parserState

	params   []int
	curParam int
	private  bool

	// UTF-8 accumulation for multi-byte glyphs in ground state.
	utf8Buf [utf8.UTFMax]byte
	utf8Len int
	utf8Rem int

	// OSC/DCS strings are consumed, not stored; this tracks whether the
	// previous byte was ESC so ST (ESC \) can terminate them.
	stringEsc bool
}

func (p *parser) advance(perf performer, b byte) {
	switch p.state {
	case stateGround:
		p.advanceGround(perf, b)
	case stateEscape:
		p.advanceEscape(b)
	case stateCSI:
		p.advanceCSI(perf, b)
	case stateOSC, stateDCS:
		p.advanceString(b)
	}
}

func (p *parser) advanceGround(perf performer, b byte) {
	if p.utf8Rem > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			p.utf8Rem--
			if p.utf8Rem == 0 {
				r, size := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
				if r != utf8.RuneError || size == p.utf8Len {
					perf.print(r)
				}
				p.utf8Len = 0
			}
			return
		}
		// Truncated sequence: drop it and reprocess this byte.
		p.utf8Len = 0
		p.utf8Rem = 0
	}

	switch {
	case b == 0x1B:
		p.state = stateEscape
	case b < 0x20 || b == 0x7F:
		perf.execute(b)
	case b < 0x80:
		perf.print(rune(b))
	default:
		p.startUTF8(b)
	}
}

func (p *parser) startUTF8(b byte) {
	var rem int
	switch {
	case b&0xE0 == 0xC0:
		rem = 1
	case b&0xF0 == 0xE0:
		rem = 2
	case b&0xF8 == 0xF0:
		rem = 3
	default:
		return // stray continuation or invalid lead byte
	}
	p.utf8Buf[0] = b
	p.utf8Len = 1
	p.utf8Rem = rem
}

func (p *parser) advanceEscape(b byte) {
	switch b {
	case '[':
		p.state = stateCSI
		p.params = p.params[:0]
		p.curParam = 0
		p.private = false
	case ']':
		p.state = stateOSC
		p.stringEsc = false
	case 'P':
		p.state = stateDCS
		p.stringEsc = false
	case 0x1B:
		// Stay in escape state.
	default:
		// Two-byte escapes (ESC c, ESC =, charset selection, ...) are
		// accepted but not interpreted.
		p.state = stateGround
	}
}

func (p *parser) advanceCSI(perf performer, b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.curParam = p.curParam*10 + int(b-'0')
	case b == ';':
		p.pushParam()
	case b >= 0x40 && b <= 0x7E:
		p.pushParam()
		if !p.private {
			perf.csiDispatch(p.params, b)
		}
		p.state = stateGround
	case b == '?' || b == '<' || b == '=' || b == '>':
		p.private = true
	case b >= 0x20 && b <= 0x2F:
		// Intermediate bytes; the sequences they introduce are not
		// supported, so mark the whole sequence private.
		p.private = true
	case b == 0x1B:
		p.state = stateEscape
	case b < 0x20:
		perf.execute(b)
	}
}

// pushParam records the parameter being accumulated; an empty slot is
// recorded as 0, which dispatch treats as "use the default".
func (p *parser) pushParam() {
	if len(p.params) < maxCSIParams {
		p.params = append(p.params, p.curParam)
	}
	p.curParam = 0
}

// advanceString consumes OSC and DCS payloads until BEL or ST.
func (p *parser) advanceString(b byte) {
	switch {
	case b == 0x07:
		p.state = stateGround
	case p.stringEsc && b == '\\':
		p.state = stateGround
	default:
		p.stringEsc = b == 0x1B
	}
}
