package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain utf-8", []byte("x = 1\n"), "x = 1\n"},
		{"empty", nil, ""},
		{"utf-8 bom stripped", []byte{0xEF, 0xBB, 0xBF, 'x', '=', '1'}, "x=1"},
		{"utf-16 le", []byte{0xFF, 0xFE, 'a', 0, 'b', 0, '\n', 0}, "ab\n"},
		{"utf-16 be", []byte{0xFE, 0xFF, 0, 'a', 0, 'b'}, "ab"},
		{"utf-16 le non-ascii", []byte{0xFF, 0xFE, 0xC0, 0x03}, "π"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cart.zen")
	require.NoError(t, os.WriteFile(path, []byte("total = 0\n"), 0o644))

	sf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cart.zen", sf.Name)
	assert.Equal(t, path, sf.Path)
	assert.Equal(t, "total = 0\n", sf.Content)
	assert.True(t, sf.IsFile())
	assert.Equal(t, path, sf.DisplayPath())
}

func TestLoadDecodesUTF16(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wide.zen")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFE, 'x', 0, '=', 0, '1', 0}, 0o644))

	sf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "x=1", sf.Content)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.zen"))
	assert.Error(t, err)
}

func TestLines(t *testing.T) {
	t.Parallel()

	sf := NewEvalSource("a\nbb\nccc")
	assert.Equal(t, []string{"a", "bb", "ccc"}, sf.Lines())

	line, ok := sf.Line(2)
	require.True(t, ok)
	assert.Equal(t, "bb", line)

	_, ok = sf.Line(0)
	assert.False(t, ok)
	_, ok = sf.Line(4)
	assert.False(t, ok)
}

func TestReaderIsIndependent(t *testing.T) {
	t.Parallel()

	sf := NewStdinSource("xyz")
	assert.Equal(t, "<stdin>", sf.Name)
	assert.False(t, sf.IsFile())
	assert.Equal(t, "<stdin>", sf.DisplayPath())

	r1 := sf.Reader()
	buf := make([]byte, 2)
	_, err := r1.Read(buf)
	require.NoError(t, err)

	r2 := sf.Reader()
	b, err := r2.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('x'), b, "a fresh reader starts at the beginning")
}
