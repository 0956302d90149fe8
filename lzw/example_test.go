package lzw_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/branila/lzwdecode/lzw"
)

func ExampleDecoder_Decode() {
	// 'h' and 'i' packed as two 12-bit codes
	out, err := lzw.NewDecoder().Decode([]byte{0x06, 0x80, 0x69})
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
	// Output:
	// hi
}

func ExampleDecode() {
	compressed := []byte{0x06, 0x80, 0x69}
	if err := lzw.Decode(bytes.NewReader(compressed), os.Stdout); err != nil {
		panic(err)
	}
	fmt.Println()
	// Output:
	// hi
}

func ExampleDecodeError() {
	_, err := lzw.NewDecoder().Decode([]byte{0x41})
	fmt.Println(errors.Is(err, lzw.ErrInvalidFirstCode))
	fmt.Println(err)
	// Output:
	// true
	// lzw: invalid first code at byte 1
}
