package lzw

import (
	"bufio"
	"io"
)

// Source is a sequential byte input whose total length is known up front.
// *bytes.Reader satisfies it.
//
// A negative size means the length is unknown. PadLow streams still decode,
// but a truncated stream then ends cleanly instead of failing with
// ErrIncompleteStream, and PadHigh streams misread their final code.
type Source interface {
	io.ByteReader
	Size() int64
}

type sizedSource struct {
	io.ByteReader
	size int64
}

func (s *sizedSource) Size() int64 { return s.size }

// NewSource adapts r to a Source of the given size. r is buffered unless it
// already implements io.ByteReader.
func NewSource(r io.Reader, size int64) Source {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &sizedSource{ByteReader: br, size: size}
}
