package lzw

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAllCodes(t *testing.T, src Source, padding Padding) ([]Code, error) {
	t.Helper()
	r := newCodeReader(src, padding)
	var codes []Code
	for {
		code, err := r.next()
		if err != nil {
			assert.Equal(t, EndOfStream, code)
			return codes, err
		}
		codes = append(codes, code)
	}
}

func TestCodeReader(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   []byte
		padding Padding
		codes   []Code
	}{
		{name: "empty", input: nil},
		{name: "single byte", input: []byte{0x41}},
		{name: "final code low padded", input: []byte{0x00, 0x10}, codes: []Code{0x001}},
		{name: "final code high padded", input: []byte{0x00, 0x10}, padding: PadHigh, codes: []Code{0x010}},
		{name: "final code high padded with bits set", input: []byte{0x10, 0x41}, padding: PadHigh, codes: []Code{0x1041}},
		{name: "two codes", input: []byte{0x06, 0x80, 0x69}, codes: []Code{0x068, 0x069}},
		{name: "max codes", input: []byte{0xff, 0xff, 0xff}, codes: []Code{0xfff, 0xfff}},
		{
			name:  "three codes",
			input: []byte{0x12, 0x34, 0x56, 0xab, 0xc0},
			codes: []Code{0x123, 0x456, 0xabc},
		},
		{
			name:    "three codes high padded",
			input:   []byte{0x12, 0x34, 0x56, 0x0a, 0xbc},
			padding: PadHigh,
			codes:   []Code{0x123, 0x456, 0xabc},
		},
		{
			// the padding nibble is never handed out as the start of another code
			name:  "padding nibble ignored",
			input: []byte{0x12, 0x34, 0x56, 0xab, 0xcf},
			codes: []Code{0x123, 0x456, 0xabc},
		},
		{
			name:  "dangling trailing byte",
			input: []byte{0x12, 0x34, 0x56, 0x78},
			codes: []Code{0x123, 0x456},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			codes, err := readAllCodes(t, bytes.NewReader(tc.input), tc.padding)
			require.ErrorIs(t, err, io.EOF)
			assert.Equal(t, tc.codes, codes)
		})
	}
}

func TestCodeReaderShortSource(t *testing.T) {
	data := []byte{0x06, 0x10, 0x62, 0x06, 0x30, 0x64}

	t.Run("pending nibble", func(t *testing.T) {
		codes, err := readAllCodes(t, NewSource(bytes.NewReader(data[:4]), int64(len(data))), PadLow)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, []Code{0x061, 0x062}, codes)
	})

	t.Run("code boundary", func(t *testing.T) {
		codes, err := readAllCodes(t, NewSource(bytes.NewReader(data[:3]), int64(len(data))), PadLow)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, []Code{0x061, 0x062}, codes)
	})
}

func TestCodeReaderMarksLastCode(t *testing.T) {
	r := newCodeReader(bytes.NewReader([]byte{0x12, 0x34, 0x56, 0xab, 0xc0}), PadLow)

	for i := 0; i < 2; i++ {
		_, err := r.next()
		require.NoError(t, err)
		assert.False(t, r.last)
	}

	code, err := r.next()
	require.NoError(t, err)
	assert.Equal(t, Code(0xabc), code)
	assert.True(t, r.last)
	assert.Equal(t, int64(5), r.pos)
}
