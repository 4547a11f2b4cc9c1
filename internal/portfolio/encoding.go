package portfolio

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Supported encoding names. Shift-JIS is the CJK fallback used by most
// Japanese brokerage exports; ISO-8859-1 decodes any byte stream and is the
// last resort (Matsui's US-stock CSV ships in it).
const (
	EncodingUTF8      = "utf-8"
	EncodingShiftJIS  = "shift-jis"
	EncodingISO8859_1 = "iso-8859-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText decodes raw bytes into text, trying the hinted encoding first
// and then the remaining fallbacks in order. Each attempt either fully
// decodes or is rejected; partially garbled output is never accepted.
func decodeText(raw []byte, hint string) (string, error) {
	attempts := encodingAttempts(hint)

	for _, name := range attempts {
		if text, ok := decodeWith(raw, name); ok {
			return text, nil
		}
	}

	return "", &DecodeError{Encodings: attempts}
}

// encodingAttempts returns the ordered attempt list for a hint. Unknown hints
// are ignored and the default ladder applies.
func encodingAttempts(hint string) []string {
	order := []string{EncodingUTF8, EncodingShiftJIS, EncodingISO8859_1}

	first := normalizeEncodingName(hint)
	if first == "" || first == EncodingUTF8 {
		return order
	}

	attempts := []string{first}
	for _, name := range order {
		if name != first {
			attempts = append(attempts, name)
		}
	}
	return attempts
}

func normalizeEncodingName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf8", EncodingUTF8:
		return EncodingUTF8
	case "sjis", "shift_jis", "shiftjis", "cp932", "windows-31j", EncodingShiftJIS:
		return EncodingShiftJIS
	case "latin1", "latin-1", "iso8859-1", "iso_8859-1", EncodingISO8859_1:
		return EncodingISO8859_1
	default:
		return ""
	}
}

func decodeWith(raw []byte, name string) (string, bool) {
	switch name {
	case EncodingUTF8:
		if !utf8.Valid(raw) {
			return "", false
		}
		return string(bytes.TrimPrefix(raw, utf8BOM)), true

	case EncodingShiftJIS:
		decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
		if err != nil {
			return "", false
		}
		// The decoder substitutes U+FFFD for undecodable bytes instead of
		// failing; treat any substitution as a failed attempt.
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", false
		}
		return string(decoded), true

	case EncodingISO8859_1:
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return "", false
		}
		return string(decoded), true

	default:
		return "", false
	}
}
