// Package lzw decodes data compressed with the fixed 12-bit LZW variant.
//
// # Stream format
//
// Codes are 12 bits wide, big-endian and packed MSB-first with no gaps, so
// three bytes carry two codes:
//
//	byte0 byte1[7:4]      -> code A
//	byte1[3:0] byte2      -> code B
//
// An odd number of codes leaves a final code in the last two bytes. Its four
// low bits are zero padding (PadLow). Some encoders, including the classic C
// lzw tools, right-align that last code instead (PadHigh).
//
// # Dictionary
//
// The dictionary holds 4096 entries. Codes 0-255 are the literal bytes and
// are never released; every code after the first adds one entry. When the
// table reaches 4096 entries it is reset back to the 256 literals and
// decoding continues. A reset is ordinary control flow, not an error.
//
// # Basic usage
//
//	out, err := lzw.NewDecoder().Decode(compressed)
//
//	// or stream a file of known size
//	f, _ := os.Open("data.lzw")
//	info, _ := f.Stat()
//	err := lzw.Decode(lzw.NewSource(f, info.Size()), os.Stdout)
//
// Errors are reported as *DecodeError and match ErrIncompleteStream,
// ErrInvalidFirstCode or ErrInvalidCode with errors.Is. Bytes written before
// the failure stay written.
package lzw
