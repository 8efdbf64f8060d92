// Package source carries Zen source text together with the metadata the
// rest of the toolchain needs to report on it: a display name, an optional
// on-disk path, and cached line boundaries for diagnostics.
package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SourceFile represents a unit of source code with its content and metadata.
type SourceFile struct {
	Name    string   // display name, e.g. "cart.zen", "<stdin>", "<eval>"
	Path    string   // full file path, empty for REPL/eval/stdin input
	Content string   // the source text, already decoded to UTF-8
	lines   []string // cached split lines, lazily initialized
}

// NewSourceFile creates a source file from explicit metadata.
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewEvalSource creates a source file for eval input.
func NewEvalSource(content string) *SourceFile {
	return NewSourceFile("<eval>", "", content)
}

// NewReplSource creates a source file for REPL input.
func NewReplSource(content string) *SourceFile {
	return NewSourceFile("<repl>", "", content)
}

// NewStdinSource creates a source file for stdin input.
func NewStdinSource(content string) *SourceFile {
	return NewSourceFile("<stdin>", "", content)
}

// FromFile creates a SourceFile from a file path and already-read content.
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Load reads a file from disk and decodes it into a SourceFile. Files
// carrying a UTF-16 byte order mark are transcoded; a UTF-8 byte order
// mark is stripped.
func Load(filePath string) (*SourceFile, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	content, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return FromFile(filePath, content), nil
}

// Decode normalizes raw source bytes to UTF-8 text. UTF-16 input is
// recognized by its byte order mark; anything else passes through with
// at most a leading UTF-8 byte order mark removed.
func Decode(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return transcodeUTF16(raw, unicode.LittleEndian)
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return transcodeUTF16(raw, unicode.BigEndian)
	}
	return string(raw), nil
}

func transcodeUTF16(raw []byte, endian unicode.Endianness) (string, error) {
	// UseBOM makes the decoder consume the mark itself.
	dec := unicode.UTF16(endian, unicode.UseBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Reader returns a fresh reader over the source text, positioned at the
// start. Each call returns an independent reader.
func (sf *SourceFile) Reader() *strings.Reader {
	return strings.NewReader(sf.Content)
}

// Lines returns the source split into lines (cached).
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 1-based line n of the source, without its trailing
// newline. The second result is false when n is out of range.
func (sf *SourceFile) Line(n int) (string, bool) {
	lines := sf.Lines()
	if n < 1 || n > len(lines) {
		return "", false
	}
	return lines[n-1], true
}

// DisplayPath returns the best path for display, preferring the full
// path over the short name.
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile reports whether this source came from an actual file.
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
