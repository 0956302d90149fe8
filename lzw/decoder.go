package lzw

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/nuclio/logger"
)

// Decoder runs decode sessions. It keeps no state between sessions and may
// be shared by goroutines.
type Decoder struct {
	logger  logger.Logger
	padding Padding
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger makes the decoder log session diagnostics at debug level.
func WithLogger(parentLogger logger.Logger) Option {
	return func(d *Decoder) {
		if parentLogger != nil {
			d.logger = parentLogger.GetChild("lzw")
		}
	}
}

// WithPadding sets the rule used for the final padded code.
func WithPadding(padding Padding) Option {
	return func(d *Decoder) {
		d.padding = padding
	}
}

// NewDecoder returns a decoder using PadLow and no logging unless configured
// otherwise.
func NewDecoder(options ...Option) *Decoder {
	d := &Decoder{
		logger:  nopLogger{},
		padding: PadLow,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

// Stats summarizes one session.
type Stats struct {
	InputSize    int64
	BytesRead    int64
	CodesRead    int
	BytesWritten int64
	Resets       int
	LastCode     Code
}

// Decode decodes a complete in-memory stream. On failure it returns the
// output produced before the error together with the error.
func (d *Decoder) Decode(input []byte) ([]byte, error) {
	var out bytes.Buffer
	_, err := d.DecodeTo(bytes.NewReader(input), &out)
	return out.Bytes(), err
}

// DecodeTo runs one session reading codes from src and writing the decoded
// bytes to dst. Output written before a failure is not rolled back.
func (d *Decoder) DecodeTo(src Source, dst io.Writer) (Stats, error) {
	s := newSession(src, dst, d.padding, d.logger)
	defer s.release()

	d.logger.DebugWith("Starting session", "inputSize", s.stats.InputSize, "padding", d.padding)

	err := s.run()
	if flushErr := s.out.Flush(); flushErr != nil && err == nil {
		s.state = stateFailed
		err = fmt.Errorf("lzw: write output: %w", flushErr)
	}
	s.stats.BytesRead = s.codes.pos

	if err != nil {
		d.logger.DebugWith("Session failed",
			"err", err,
			"codes", s.stats.CodesRead,
			"written", s.stats.BytesWritten)
		return s.stats, err
	}

	d.logger.DebugWith("Session finished",
		"codes", s.stats.CodesRead,
		"written", s.stats.BytesWritten,
		"resets", s.stats.Resets,
		"lastCode", s.stats.LastCode)

	return s.stats, nil
}

// Decode runs a session with the default decoder.
func Decode(src Source, dst io.Writer) error {
	_, err := NewDecoder().DecodeTo(src, dst)
	return err
}

type state int

const (
	stateStart state = iota
	stateDecoding
	stateFinished
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateDecoding:
		return "decoding"
	case stateFinished:
		return "finished"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// session owns the dictionary and reader state of a single decode.
type session struct {
	state  state
	codes  *codeReader
	dict   *Dictionary
	out    *bufio.Writer
	logger logger.Logger
	stats  Stats
}

func newSession(src Source, dst io.Writer, padding Padding, sessionLogger logger.Logger) *session {
	return &session{
		state:  stateStart,
		codes:  newCodeReader(src, padding),
		out:    bufio.NewWriter(dst),
		logger: sessionLogger,
		stats: Stats{
			InputSize: src.Size(),
			LastCode:  EndOfStream,
		},
	}
}

func (s *session) run() error {
	s.dict = NewDictionary()

	// a first code that cannot be read is EndOfStream, whatever the cause
	code, err := s.codes.next()
	if err == io.EOF {
		err = nil
	}

	// EndOfStream is never below Next, so an empty stream lands here too
	if code >= s.dict.Next() {
		return s.fail(InvalidFirstCode, code, err)
	}

	s.state = stateDecoding
	s.stats.CodesRead++

	previous := s.dict.Entry(code)
	if err := s.emit(code, previous); err != nil {
		return err
	}

	for {
		code, err = s.codes.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.fail(IncompleteStream, code, err)
		}
		s.stats.CodesRead++

		// code == Next is the KwKwK case and is resolved below
		if code > s.dict.Next() {
			return s.fail(InvalidCode, code, nil)
		}

		entry := make([]byte, len(previous)+1)
		copy(entry, previous)
		if code == s.dict.Next() {
			entry[len(previous)] = previous[0]
		} else {
			entry[len(previous)] = s.dict.Entry(code)[0]
		}
		s.dict.Add(entry)

		current := s.dict.Entry(code)
		if err := s.emit(code, current); err != nil {
			return err
		}

		if s.dict.Full() {
			s.logger.DebugWith("Dictionary full, resetting", "codes", s.stats.CodesRead)
			s.dict.Reset()
			s.stats.Resets++
		}

		// held by value: a reset above may already have dropped its slot
		previous = current
	}

	s.state = stateFinished
	return nil
}

func (s *session) emit(code Code, entry []byte) error {
	if s.codes.last {
		s.logger.DebugWith("Read final padded code", "code", code, "offset", s.codes.pos)
	}

	n, err := s.out.Write(entry)
	s.stats.BytesWritten += int64(n)
	if err != nil {
		s.state = stateFailed
		return fmt.Errorf("lzw: write output: %w", err)
	}
	s.stats.LastCode = code
	return nil
}

func (s *session) fail(kind ErrorKind, code Code, cause error) error {
	s.state = stateFailed
	return &DecodeError{
		Kind:   kind,
		Code:   code,
		Next:   s.dict.Next(),
		Offset: s.codes.pos,
		Err:    cause,
	}
}

func (s *session) release() {
	if s.dict != nil {
		s.dict.Release()
		s.dict = nil
	}
	s.codes.src = nil
}
