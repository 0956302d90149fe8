package lzw

// Code is a 12-bit dictionary index.
type Code uint16

const (
	// CodeWidth is the fixed number of bits per code.
	CodeWidth = 12

	// LiteralCodes is the number of single-byte entries seeded into every dictionary.
	LiteralCodes = 256

	// MaxCodes is the dictionary capacity; a full table is reset.
	MaxCodes = 1 << CodeWidth

	// EndOfStream is returned by the code reader when no further code can be read.
	EndOfStream Code = MaxCodes
)

// Padding selects how the final code of a stream with an odd number of codes
// is laid out in its two bytes.
type Padding int

const (
	// PadLow treats the low 4 bits of the last byte as zero padding.
	PadLow Padding = iota

	// PadHigh treats the high 4 bits of the next to last byte as zero padding,
	// as the classic C compressors write it. Set padding bits make the final
	// code invalid.
	PadHigh
)

func (p Padding) String() string {
	switch p {
	case PadLow:
		return "low"
	case PadHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParsePadding maps "low" and "high" to a Padding.
func ParsePadding(name string) (Padding, error) {
	switch name {
	case "low", "":
		return PadLow, nil
	case "high":
		return PadHigh, nil
	default:
		return PadLow, ErrUnknownPadding
	}
}
