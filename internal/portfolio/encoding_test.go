package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// トヨタ in Shift-JIS; invalid as UTF-8.
var shiftJISToyota = []byte{0x83, 0x67, 0x83, 0x88, 0x83, 0x5e}

func TestDecodeText_UTF8(t *testing.T) {
	text, err := decodeText([]byte("銘柄コード,銘柄名\n7203,トヨタ"), "")
	require.NoError(t, err)
	assert.Equal(t, "銘柄コード,銘柄名\n7203,トヨタ", text)
}

func TestDecodeText_StripsUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("code,name")...)
	text, err := decodeText(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "code,name", text)
}

func TestDecodeText_ShiftJISFallback(t *testing.T) {
	// Invalid under UTF-8, valid under the CJK fallback: decoded, not an error.
	text, err := decodeText(shiftJISToyota, "")
	require.NoError(t, err)
	assert.Equal(t, "トヨタ", text)
}

func TestDecodeText_HintTriedFirst(t *testing.T) {
	text, err := decodeText(shiftJISToyota, "shift-jis")
	require.NoError(t, err)
	assert.Equal(t, "トヨタ", text)
}

func TestDecodeText_Latin1LastResort(t *testing.T) {
	// 0xFF 0xFE is invalid UTF-8 and not a Shift-JIS sequence, but Latin-1
	// decodes any byte stream, so the ladder never corrupts silently and
	// still terminates successfully.
	raw := []byte{0xFF, 0xFE, 0x41}
	text, err := decodeText(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "ÿþA", text)
}

func TestNormalizeEncodingName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", EncodingUTF8},
		{"UTF-8", EncodingUTF8},
		{"utf8", EncodingUTF8},
		{"shift_jis", EncodingShiftJIS},
		{"Shift-JIS", EncodingShiftJIS},
		{"cp932", EncodingShiftJIS},
		{"latin1", EncodingISO8859_1},
		{"iso-8859-1", EncodingISO8859_1},
		{"koi8-r", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeEncodingName(tt.in))
		})
	}
}

func TestEncodingAttempts_UnknownHintUsesDefaultLadder(t *testing.T) {
	assert.Equal(t,
		[]string{EncodingUTF8, EncodingShiftJIS, EncodingISO8859_1},
		encodingAttempts("koi8-r"))
	assert.Equal(t,
		[]string{EncodingShiftJIS, EncodingUTF8, EncodingISO8859_1},
		encodingAttempts("sjis"))
}
