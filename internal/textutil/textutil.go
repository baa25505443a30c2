// Package textutil normalizes snapshot text before it is parsed.
package textutil

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeUTF8 reads r to the end as UTF-8. A leading byte order mark is
// dropped (a UTF-16 BOM switches decoding to UTF-16), and invalid byte
// sequences become U+FFFD.
func DecodeUTF8(r io.Reader) ([]byte, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(r, dec))
}

// NormalizeLF converts CRLF to LF. A lone CR is left alone: it is JSON
// whitespace, not a record separator.
func NormalizeLF(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// StripLineBreaks removes every CR and LF, joining the text into one line.
func StripLineBreaks(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != '\n' && c != '\r' {
			out = append(out, c)
		}
	}
	return out
}

// EnsureTrailingLF appends a single \n if not already present.
func EnsureTrailingLF(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return b
	}
	return append(b, '\n')
}
