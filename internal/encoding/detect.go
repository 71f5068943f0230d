package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NewUTF8Reader wraps r so that whatever encoding the source file uses,
// the caller reads UTF-8. Project sheets exported from spreadsheet
// tools commonly arrive as Windows-1252 or UTF-16 with a BOM.
//
// A UTF-8 BOM is stripped. Content that already validates as UTF-8
// passes through untouched. Anything else goes through chardet, with
// Windows-1252 as the fallback when detection is inconclusive.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if dec := bomDecoder(head); dec != nil {
		return transform.NewReader(br, dec), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, sniffDecoder(head)), nil
}

func bomDecoder(head []byte) transform.Transformer {
	switch {
	case bytes.HasPrefix(head, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case bytes.HasPrefix(head, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}

	return nil
}

// sniffDecoder picks a single-byte decoder for content that is not
// valid UTF-8. Detection failures fall back to Windows-1252, which is
// what the office machines here actually produce.
func sniffDecoder(head []byte) transform.Transformer {
	detector := chardet.NewTextDetector()

	result, err := detector.DetectBest(head)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-15":
			return charmap.ISO8859_15.NewDecoder()
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252.NewDecoder()
		}
	}

	return charmap.Windows1252.NewDecoder()
}
