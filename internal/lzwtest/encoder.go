// Package lzwtest produces fixed 12-bit LZW streams for tests.
package lzwtest

import (
	"bytes"

	"github.com/icza/bitio"
)

const (
	codeWidth    = 12
	literalCodes = 256
	maxCodes     = 1 << codeWidth
)

// Codes returns the code sequence for data. The table is reset to the
// literals as soon as it holds 4096 entries, which keeps it in step with a
// decoder that resets after its own 4096th entry.
func Codes(data []byte) []uint16 {
	if len(data) == 0 {
		return nil
	}

	table := make(map[string]uint16, maxCodes)
	next := 0
	reset := func() {
		clear(table)
		for i := 0; i < literalCodes; i++ {
			table[string([]byte{byte(i)})] = uint16(i)
		}
		next = literalCodes
	}
	reset()

	var codes []uint16
	current := data[:1]
	for i := 1; i < len(data); i++ {
		candidate := data[i-len(current) : i+1]
		if _, ok := table[string(candidate)]; ok {
			current = candidate
			continue
		}

		codes = append(codes, table[string(current)])
		table[string(candidate)] = uint16(next)
		next++
		if next == maxCodes {
			reset()
		}
		current = data[i : i+1]
	}

	return append(codes, table[string(current)])
}

// Pack writes codes MSB-first, 12 bits each. An odd final code is followed
// by four zero bits.
func Pack(codes []uint16) []byte {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for _, code := range codes {
		if err := w.WriteBits(uint64(code), codeWidth); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PackHighPadded is Pack, except that an odd final code is right-aligned in
// its two bytes, the layout PadHigh decodes.
func PackHighPadded(codes []uint16) []byte {
	if len(codes)%2 == 0 {
		return Pack(codes)
	}
	packed := Pack(codes[:len(codes)-1])
	last := codes[len(codes)-1]
	return append(packed, byte(last>>8), byte(last))
}

// Encode returns data compressed with the low-padded layout.
func Encode(data []byte) []byte {
	return Pack(Codes(data))
}
