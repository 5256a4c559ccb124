package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the character set of a bank export.
type Encoding string

const (
	EncodingAuto        Encoding = "auto"
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1251 Encoding = "windows-1251"
)

// sniffLen is how much of the input auto-detection looks at.
const sniffLen = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode wraps r so that it yields UTF-8. With EncodingAuto the head of the
// stream is inspected: anything that is not valid UTF-8 is read as
// windows-1251, the legacy encoding of the bank's exports.
func Decode(r io.Reader, enc Encoding) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	switch enc {
	case EncodingUTF8, "":
		return skipBOM(br), nil
	case EncodingWindows1251:
		return charmap.Windows1251.NewDecoder().Reader(br), nil
	case EncodingAuto:
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("sniffing encoding: %w", err)
		}
		if looksUTF8(head, len(head) < sniffLen) {
			return skipBOM(br), nil
		}
		return charmap.Windows1251.NewDecoder().Reader(br), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

func skipBOM(br *bufio.Reader) io.Reader {
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// looksUTF8 validates b, allowing a rune cut off by the sniff window.
func looksUTF8(b []byte, atEOF bool) bool {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(b[i:]) {
				return true
			}
			return false
		}
		i += size
	}
	return true
}
