package lzw

import "io"

// NewReader returns a ReadCloser that yields the decoded form of the size
// bytes read from r. Decoding runs on its own goroutine; a decode error is
// returned by Read once the bytes produced before it have been consumed.
//
// Callers must always Close the reader. Until it is read to the end or
// closed, the decoding goroutine stays blocked on its next write. Closing
// early stops the session at that write.
func NewReader(r io.Reader, size int64, options ...Option) io.ReadCloser {
	pr, pw := io.Pipe()
	decoder := NewDecoder(options...)

	go func() {
		_, err := decoder.DecodeTo(NewSource(r, size), pw)
		pw.CloseWithError(err)
	}()

	return pr
}
