package lzw

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/branila/lzwdecode/internal/lzwtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	input := []byte(strings.Repeat("streaming through a pipe, ", 2000))
	packed := lzwtest.Encode(input)

	r := NewReader(bytes.NewReader(packed), int64(len(packed)))
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestNewReaderError(t *testing.T) {
	packed := lzwtest.Pack([]uint16{'o', 'k', 4000})

	r := NewReader(bytes.NewReader(packed), int64(len(packed)))
	defer r.Close()

	got, err := io.ReadAll(r)
	require.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, "ok", string(got))
}

func TestNewReaderEarlyClose(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789"), 100000)
	packed := lzwtest.Encode(input)

	r := NewReader(bytes.NewReader(packed), int64(len(packed)), WithPadding(PadLow))

	buf := make([]byte, 16)
	_, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, "0123456789012345", string(buf))

	require.NoError(t, r.Close())
	_, err = r.Read(buf)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
