package lexer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindowSizeValidation(t *testing.T) {
	t.Parallel()

	_, err := NewWindowSize(strings.NewReader(""), 16, 0)
	assert.Error(t, err, "keep-back depth below 1 must be rejected")

	_, err = NewWindowSize(strings.NewReader(""), 2, 1)
	assert.Error(t, err, "buffer smaller than keepBack+2 must be rejected")

	_, err = NewWindowSize(strings.NewReader(""), 3, 1)
	assert.NoError(t, err, "keepBack+2 is the smallest legal buffer")
}

func TestCurrentPeekAdvance(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader("abc"))

	b, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	p, ok := w.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('b'), p)

	// neither Current nor Peek moved the cursor
	b, ok = w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, ok = w.Advance()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	b, ok = w.Advance()
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)

	// cursor on the last byte: it is addressable but lookahead is not
	b, ok = w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('c'), b)

	_, ok = w.Peek()
	assert.False(t, ok)

	b, ok = w.Advance()
	require.True(t, ok)
	assert.Equal(t, byte('c'), b)

	_, ok = w.Current()
	assert.False(t, ok)
	_, ok = w.Advance()
	assert.False(t, ok)
}

func TestRefillTransparency(t *testing.T) {
	t.Parallel()

	const src = "the quick brown fox jumps over the lazy dog"

	for bufSize := 3; bufSize <= 8; bufSize++ {
		w, err := NewWindowSize(strings.NewReader(src), bufSize, 1)
		require.NoError(t, err)

		var got []byte
		for {
			b, ok := w.Advance()
			if !ok {
				break
			}
			got = append(got, b)
		}
		assert.Equal(t, src, string(got), "buffer size %d", bufSize)
		assert.NoError(t, w.Err())
	}
}

func TestUngetBound(t *testing.T) {
	t.Parallel()

	for _, keep := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("depth %d", keep), func(t *testing.T) {
			w, err := NewWindowSize(strings.NewReader("abcdefgh"), 16, keep)
			require.NoError(t, err)

			for i := 0; i < 4; i++ {
				_, ok := w.Advance()
				require.True(t, ok)
			}
			require.Equal(t, 5, w.Column())

			for i := 0; i < keep; i++ {
				assert.True(t, w.Unget(), "unget %d of %d", i+1, keep)
			}
			assert.False(t, w.Unget(), "history deeper than %d must be refused", keep)

			// the cursor and the position counters moved back together
			assert.Equal(t, 4-keep+1, w.Column())
			b, ok := w.Advance()
			require.True(t, ok)
			assert.Equal(t, "abcdefgh"[4-keep], b)
		})
	}
}

func TestUngetFreshWindow(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader("abc"))
	assert.False(t, w.Unget())
}

func TestUngetAcrossRefill(t *testing.T) {
	t.Parallel()

	const src = "abcdefghij"
	w, err := NewWindowSize(strings.NewReader(src), 4, 1)
	require.NoError(t, err)

	// After every advance an unget must land on the same byte, even when
	// the advance itself triggered a refill.
	for i := 0; ; i++ {
		b1, ok := w.Advance()
		if !ok {
			assert.Equal(t, len(src), i)
			break
		}
		require.True(t, w.Unget(), "byte %d", i)
		b2, ok := w.Advance()
		require.True(t, ok, "byte %d", i)
		assert.Equal(t, b1, b2, "byte %d", i)
	}
}

func TestUngetRestoresNewlinePosition(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader("a\nb"))
	w.Advance() // a
	w.Advance() // newline
	require.Equal(t, 2, w.Line())
	require.Equal(t, 1, w.Column())

	require.True(t, w.Unget())
	assert.Equal(t, 1, w.Line())
	assert.Equal(t, 2, w.Column())

	b, ok := w.Advance()
	require.True(t, ok)
	assert.Equal(t, byte('\n'), b)
	assert.Equal(t, 2, w.Line())
}

func TestSkip(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader("abcdef"))
	w.Skip(3)
	b, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('d'), b)

	w.Skip(100)
	_, ok = w.Current()
	assert.False(t, ok)
}

func TestSkipBlank(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader(" \t\r\f\v x"))
	w.SkipBlank()
	b, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('x'), b)

	// newlines are significant and stay put
	w = NewWindow(strings.NewReader("  \n"))
	w.SkipBlank()
	b, ok = w.Current()
	require.True(t, ok)
	assert.Equal(t, byte('\n'), b)
}

func TestPositionTracking(t *testing.T) {
	t.Parallel()

	w := NewWindow(strings.NewReader("ab\ncd"))

	wantPos := []struct{ line, col int }{
		{1, 1}, {1, 2}, {1, 3}, {2, 1}, {2, 2},
	}
	for i, want := range wantPos {
		assert.Equal(t, want.line, w.Line(), "byte %d", i)
		assert.Equal(t, want.col, w.Column(), "byte %d", i)
		_, ok := w.Advance()
		require.True(t, ok)
	}
}

func TestErrReportsReadFailure(t *testing.T) {
	t.Parallel()

	t.Run("clean EOF leaves Err nil", func(t *testing.T) {
		w := NewWindow(strings.NewReader("ab"))
		w.Skip(10)
		assert.NoError(t, w.Err())
	})

	t.Run("failure after data", func(t *testing.T) {
		w := NewWindow(iotest.TimeoutReader(strings.NewReader("ab")))

		b, ok := w.Advance()
		require.True(t, ok)
		assert.Equal(t, byte('a'), b)
		b, ok = w.Advance()
		require.True(t, ok)
		assert.Equal(t, byte('b'), b)

		_, ok = w.Advance()
		assert.False(t, ok)
		assert.ErrorIs(t, w.Err(), iotest.ErrTimeout)
	})

	t.Run("failure on first read", func(t *testing.T) {
		boom := errors.New("disk gone")
		w := NewWindow(iotest.ErrReader(boom))

		_, ok := w.Current()
		assert.False(t, ok)
		assert.ErrorIs(t, w.Err(), boom)
	})
}

func TestOneByteReads(t *testing.T) {
	t.Parallel()

	// a reader that trickles one byte at a time forces the refill loop
	// to tolerate short reads
	w, err := NewWindowSize(iotest.OneByteReader(strings.NewReader("xyz")), 4, 1)
	require.NoError(t, err)

	var got []byte
	for {
		b, ok := w.Advance()
		if !ok {
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, "xyz", string(got))
	assert.NoError(t, w.Err())
}
