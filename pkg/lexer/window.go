package lexer

import (
	"errors"
	"io"
)

// Default window geometry, matching the upstream fixed buffer.
const (
	defaultBufSize  = 4096
	defaultKeepBack = 1
)

type position struct {
	line, col int
}

// Window is a fixed-capacity byte buffer over an io.Reader with one byte
// of lookahead and bounded single-step backtracking. Refills slide the
// last K consumed bytes to the front of the buffer so Unget stays valid
// across refill boundaries without re-reading the source.
//
// A Window exclusively owns its reader for its lifetime; sharing one
// reader between two Windows is undefined.
type Window struct {
	r   io.Reader
	buf []byte
	cur int // index of the byte under the cursor
	n   int // valid bytes in buf
	eof bool
	err error

	line int
	col  int

	keep int // retained back-region size; also the unget depth K
	hist []position
}

// NewWindow returns a Window with the default geometry (4096-byte buffer,
// unget depth 1).
func NewWindow(r io.Reader) *Window {
	w, err := NewWindowSize(r, defaultBufSize, defaultKeepBack)
	if err != nil {
		// unreachable with the default geometry
		panic(err)
	}
	return w
}

// NewWindowSize returns a Window with a custom buffer size and unget
// depth. The buffer must hold the retained back region, the byte under
// the cursor, and one lookahead byte, so bufSize must be at least
// keepBack+2; keepBack must be at least 1.
func NewWindowSize(r io.Reader, bufSize, keepBack int) (*Window, error) {
	if keepBack < 1 {
		return nil, errors.New("lexer: keep-back depth must be at least 1")
	}
	if bufSize < keepBack+2 {
		return nil, errors.New("lexer: buffer too small for back region plus lookahead")
	}
	return &Window{
		r:   r,
		buf: make([]byte, bufSize),
		// The front keepBack bytes form a dead zone counted as already
		// consumed, so the cursor never underflows the buffer start.
		cur:  keepBack,
		n:    keepBack,
		line: 1,
		col:  1,
		keep: keepBack,
		hist: make([]position, 0, keepBack),
	}, nil
}

// fill slides the retained back region to the buffer front, moves any
// unread tail after it, repositions the cursor to offset keep, and reads
// from the source into the remaining space. Returns the number of newly
// read bytes; 0 means the source is exhausted, not that the buffer is.
func (w *Window) fill() int {
	if w.eof {
		return 0
	}
	back := w.keep
	if w.cur < back {
		back = w.cur
	}
	tail := w.n - w.cur
	copy(w.buf, w.buf[w.cur-back:w.cur])
	copy(w.buf[back:], w.buf[w.cur:w.n])
	w.cur = back
	w.n = back + tail

	for {
		m, err := w.r.Read(w.buf[w.n:])
		w.n += m
		if err != nil {
			if err != io.EOF {
				w.err = err
			}
			w.eof = true
			return m
		}
		if m > 0 {
			return m
		}
	}
}

// ensure makes the byte at cursor+k addressable, refilling as needed.
func (w *Window) ensure(k int) bool {
	for w.cur+k >= w.n {
		if w.eof || w.fill() == 0 {
			return w.cur+k < w.n
		}
	}
	return true
}

// Current returns the byte under the cursor without consuming it. The
// second result is false at end of stream.
func (w *Window) Current() (byte, bool) {
	if !w.ensure(0) {
		return 0, false
	}
	return w.buf[w.cur], true
}

// Peek returns the byte one position ahead of the cursor without
// consuming anything, refilling if the lookahead byte is not buffered.
func (w *Window) Peek() (byte, bool) {
	if !w.ensure(1) {
		return 0, false
	}
	return w.buf[w.cur+1], true
}

// Advance consumes the byte under the cursor and returns it; afterwards
// the cursor rests on the following byte. Consuming a newline increments
// the line counter and resets the column to 1, any other byte increments
// the column. The pre-advance position is pushed onto the bounded history
// so the step can be undone with Unget.
func (w *Window) Advance() (byte, bool) {
	if !w.ensure(0) {
		return 0, false
	}
	b := w.buf[w.cur]
	w.pushPos()
	w.cur++
	if b == '\n' {
		w.line++
		w.col = 1
	} else {
		w.col++
	}
	return b, true
}

func (w *Window) pushPos() {
	if len(w.hist) == w.keep {
		copy(w.hist, w.hist[1:])
		w.hist = w.hist[:w.keep-1]
	}
	w.hist = append(w.hist, position{w.line, w.col})
}

// Unget reverses the most recent Advance, restoring the cursor and the
// line/column counters. It returns false once the bounded history is
// exhausted or the cursor is already at the buffer start; this is a
// capacity limit, not an error, and the window is left unchanged.
func (w *Window) Unget() bool {
	if len(w.hist) == 0 {
		return false
	}
	if w.cur == 0 {
		return false
	}
	w.cur--
	p := w.hist[len(w.hist)-1]
	w.hist = w.hist[:len(w.hist)-1]
	w.line, w.col = p.line, p.col
	return true
}

// Skip consumes up to n bytes, stopping early at end of stream.
func (w *Window) Skip(n int) {
	for ; n > 0; n-- {
		if _, ok := w.Advance(); !ok {
			return
		}
	}
}

// SkipBlank consumes horizontal whitespace (space, tab, CR, FF, VT).
// Newlines are significant tokens and are never skipped.
func (w *Window) SkipBlank() {
	for {
		b, ok := w.Current()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\r', '\f', '\v':
			w.Advance()
		default:
			return
		}
	}
}

// Line returns the 1-based line of the byte under the cursor.
func (w *Window) Line() int { return w.line }

// Column returns the 1-based column of the byte under the cursor.
func (w *Window) Column() int { return w.col }

// Err returns the first non-EOF read error encountered, if any. End of
// data is reported through the ok results of Current, Peek and Advance;
// Err distinguishes a failed source from a drained one.
func (w *Window) Err() error { return w.err }
