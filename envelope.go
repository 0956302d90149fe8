package main

import (
	"bufio"
	"bytes"
	"io"

	"github.com/branila/lzwdecode/lzw"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/nuclio/errors"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Identifies a zstd or gzip envelope from the first bytes of an input. Neither
// magic can start a valid LZW stream: both decode to a first code above 255.
func detectEnvelope(header []byte) string {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return EnvelopeZstd
	case bytes.HasPrefix(header, gzipMagic):
		return EnvelopeGzip
	default:
		return EnvelopeNone
	}
}

// Returns the LZW stream carried by r and the envelope it was found in. A
// bare stream is read in place; an enveloped one is unwrapped into memory
// because its decoded size is only known once it has been read.
func openEnvelope(r io.Reader, size int64, kind string) (lzw.Source, string, error) {
	br := bufio.NewReader(r)

	if kind == EnvelopeAuto {
		header, err := br.Peek(len(zstdMagic))
		if err != nil && err != io.EOF {
			return nil, "", errors.Wrap(err, "Failed to read envelope header")
		}
		kind = detectEnvelope(header)
	}

	switch kind {
	case EnvelopeZstd:
		decoder, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, "", errors.Wrap(err, "Failed to create zstd reader")
		}
		defer decoder.Close()

		contents, err := io.ReadAll(decoder)
		if err != nil {
			return nil, "", errors.Wrap(err, "Failed to unwrap zstd envelope")
		}
		return bytes.NewReader(contents), kind, nil

	case EnvelopeGzip:
		reader, err := gzip.NewReader(br)
		if err != nil {
			return nil, "", errors.Wrap(err, "Failed to create gzip reader")
		}
		defer reader.Close()

		contents, err := io.ReadAll(reader)
		if err != nil {
			return nil, "", errors.Wrap(err, "Failed to unwrap gzip envelope")
		}
		return bytes.NewReader(contents), kind, nil

	default:
		return lzw.NewSource(br, size), EnvelopeNone, nil
	}
}
