package cuesheet

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cuekit/internal/fileutil"
)

// CharsetAuto enables byte-order-mark and heuristic charset detection.
const CharsetAuto = "auto"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadLines reads a cuesheet file and returns its lines decoded to UTF-8.
// charset is a WHATWG encoding label or CharsetAuto.
func ReadLines(path, charset string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cuesheet: %w", err)
	}
	lines, err := DecodeLines(data, charset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// DecodeLines converts raw cuesheet bytes to lines with trailing whitespace
// removed.
func DecodeLines(data []byte, charset string) ([]string, error) {
	text, err := decode(data, charset)
	if err != nil {
		return nil, err
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func decode(data []byte, charset string) (string, error) {
	charset = strings.TrimSpace(charset)
	if charset != "" && !strings.EqualFold(charset, CharsetAuto) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return "", fmt.Errorf("%w: unknown charset %q", ErrInvalidArgument, charset)
		}
		return decodeWith(enc, data)
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%w: this file is not a cuesheet", ErrUnsupportedFile)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return decodeWith(guessLegacy(data), data)
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: this cuesheet has bad encoding: %w", ErrUnsupportedFile, err)
	}
	return string(out), nil
}

// guessLegacy picks between windows-1251 and GBK for text that is not valid
// UTF-8. Lowercase Cyrillic letters sit in 0xE0-0xFF under windows-1251,
// while GBK text is dominated by pairs from the GB2312 punctuation and
// level-1 hanzi rows. Whichever share is larger wins.
func guessLegacy(data []byte) encoding.Encoding {
	out, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return charmap.Windows1251
	}
	if cyrillicShare(data) > gbkCommonShare(data) {
		return charmap.Windows1251
	}
	return simplifiedchinese.GBK
}

// cyrillicShare is the fraction of high bytes that decode to lowercase
// Cyrillic letters under windows-1251.
func cyrillicShare(data []byte) float64 {
	high, lower := 0, 0
	for _, b := range data {
		if b < 0x80 {
			continue
		}
		high++
		if b >= 0xE0 || b == 0xB8 {
			lower++
		}
	}
	if high == 0 {
		return 0
	}
	return float64(lower) / float64(high)
}

// gbkCommonShare is the fraction of GBK byte pairs that fall in the
// GB2312 punctuation rows or the level-1 hanzi block.
func gbkCommonShare(data []byte) float64 {
	pairs, common := 0, 0
	for i := 0; i < len(data); {
		lead := data[i]
		if lead < 0x80 {
			i++
			continue
		}
		pairs++
		if i+1 < len(data) {
			trail := data[i+1]
			commonRow := (lead >= 0xA1 && lead <= 0xA9) || (lead >= 0xB0 && lead <= 0xD7)
			if commonRow && trail >= 0xA1 && trail <= 0xFE {
				common++
			}
		}
		i += 2
	}
	if pairs == 0 {
		return 0
	}
	return float64(common) / float64(pairs)
}

// WriteLines saves lines as a UTF-8 file.
func WriteLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := fileutil.WriteAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write cuesheet: %w", err)
	}
	return nil
}
