package lzw

// literals holds the single-byte entries shared by every dictionary.
var literals [LiteralCodes][]byte

func init() {
	for i := 0; i < LiteralCodes; i++ {
		literals[i] = []byte{byte(i)}
	}
}

// Dictionary maps codes to the byte sequences they stand for. Slots below
// Next are populated and slots at or above it are empty.
//
// Entries returned by Entry are shared with the dictionary and must not be
// modified.
type Dictionary struct {
	entries [MaxCodes][]byte
	next    Code
}

// NewDictionary returns a dictionary seeded with the 256 literal entries.
func NewDictionary() *Dictionary {
	d := &Dictionary{}
	d.seed()
	return d
}

func (d *Dictionary) seed() {
	for i := 0; i < LiteralCodes; i++ {
		d.entries[i] = literals[i]
	}
	d.next = LiteralCodes
}

// Entry returns the sequence for code, or nil if code has not been assigned.
func (d *Dictionary) Entry(code Code) []byte {
	if code >= d.next {
		return nil
	}
	return d.entries[code]
}

// Add stores entry in the next free slot and returns its code. The
// dictionary takes ownership of entry. Add panics on a full dictionary.
func (d *Dictionary) Add(entry []byte) Code {
	if d.Full() {
		panic("lzw: add to full dictionary")
	}
	code := d.next
	d.entries[code] = entry
	d.next++
	return code
}

// Next returns the code the next Add will assign.
func (d *Dictionary) Next() Code { return d.next }

// Len returns the number of populated slots.
func (d *Dictionary) Len() int { return int(d.next) }

// Full reports whether every slot is populated.
func (d *Dictionary) Full() bool { return d.next >= MaxCodes }

// Reset drops every learned entry and keeps the literals. A released
// dictionary is seeded again.
func (d *Dictionary) Reset() {
	if d.next > LiteralCodes {
		clear(d.entries[LiteralCodes:d.next])
	}
	d.seed()
}

// Release drops every entry, literals included. The dictionary is empty
// afterwards.
func (d *Dictionary) Release() {
	clear(d.entries[:d.next])
	d.next = 0
}
