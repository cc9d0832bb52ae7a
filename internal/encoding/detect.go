// Package encoding turns uploaded CSV bytes into UTF-8 whatever spreadsheet produced them.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffLen is how much of the input is inspected before decoding starts.
const sniffLen = 4096

// Charset names the encoding Detect settled on.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8 (BOM)"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8BOM},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Detect classifies a sample of the input. A byte-order mark wins, then valid UTF-8,
// then chardet's best guess. Anything chardet cannot place is read as Windows-1252,
// which is what Excel writes on most Windows installs.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Windows1252
	}

	switch res.Charset {
	case "UTF-8":
		return UTF8
	case "ISO-8859-9":
		return ISO88599
	default:
		return Windows1252
	}
}

func decoder(c Charset) encoding.Encoding {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case ISO88599:
		return charmap.ISO8859_9
	case Windows1252:
		return charmap.Windows1252
	default:
		return nil
	}
}

// NewUTF8Reader returns r decoded to UTF-8, with any UTF-8 byte-order mark removed.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset := Detect(trimPartialRune(sample))

	if charset == UTF8BOM {
		if _, err := br.Discard(3); err != nil {
			return nil, fmt.Errorf("discard bom: %w", err)
		}

		return br, nil
	}

	enc := decoder(charset)
	if enc == nil {
		return br, nil
	}

	return transform.NewReader(br, enc.NewDecoder()), nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of sample.
func trimPartialRune(sample []byte) []byte {
	if len(sample) < sniffLen {
		return sample
	}

	i := len(sample) - 1
	for i > 0 && len(sample)-i < utf8.UTFMax && !utf8.RuneStart(sample[i]) {
		i--
	}

	if !utf8.FullRune(sample[i:]) {
		return sample[:i]
	}

	return sample
}
