package lzw

import "io"

// codeReader unpacks 12-bit codes from a byte source. Two codes share three
// bytes, so the low nibble of every second byte is held over for the next call.
type codeReader struct {
	src     Source
	size    int64
	pos     int64
	padding Padding

	nibble  byte
	pending bool

	// set once the padded final code has been read
	last bool
}

func newCodeReader(src Source, padding Padding) *codeReader {
	return &codeReader{
		src:     src,
		size:    src.Size(),
		padding: padding,
	}
}

// next returns the next code, or EndOfStream with io.EOF when the input ended
// where it said it would. Any other error is returned with EndOfStream.
func (r *codeReader) next() (Code, error) {
	if r.pending {
		b, err := r.readByte()
		if err != nil {
			return EndOfStream, err
		}
		r.pending = false
		return Code(r.nibble)<<8 | Code(b), nil
	}

	b0, err := r.readByte()
	if err != nil {
		return EndOfStream, err
	}
	b1, err := r.readByte()
	if err != nil {
		return EndOfStream, err
	}

	if r.pos == r.size {
		r.last = true
		if r.padding == PadHigh {
			// unmasked: set padding bits push the code out of range
			return Code(b0)<<8 | Code(b1), nil
		}
		return Code(b0)<<4 | Code(b1>>4), nil
	}

	r.nibble = b1 & 0x0f
	r.pending = true
	return Code(b0)<<4 | Code(b1>>4), nil
}

func (r *codeReader) readByte() (byte, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		if err == io.EOF && r.pos < r.size {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	r.pos++
	return b, nil
}
