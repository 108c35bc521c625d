package bitmask

import "fmt"

const (
	// Size is the number of flags a Mask can hold.
	Size     = 256
	wordSize = 64
	numWords = Size / wordSize
)

// Mask is a fixed-capacity set of 256 flags. The zero value is empty.
// Indices outside [0, Size) never test as set.
type Mask struct {
	words [numWords]uint64
}

// FromWords builds a mask from its four 64-bit words, lowest bits first.
func FromWords(w0, w1, w2, w3 uint64) Mask {
	return Mask{words: [numWords]uint64{w0, w1, w2, w3}}
}

// FromIndices builds a mask with the given indices set.
func FromIndices(indices ...int) (Mask, error) {
	var m Mask
	for _, i := range indices {
		if err := m.Set(i); err != nil {
			return Mask{}, err
		}
	}
	return m, nil
}

func inRange(i int) bool {
	return i >= 0 && i < Size
}

// Test reports whether flag i is set.
func (m Mask) Test(i int) bool {
	if !inRange(i) {
		return false
	}
	return (m.words[i/wordSize]>>(uint(i)%wordSize))&1 == 1
}

// Set sets flag i.
func (m *Mask) Set(i int) error {
	if !inRange(i) {
		return fmt.Errorf("bit index %d out of range [0, %d)", i, Size)
	}
	m.words[i/wordSize] |= 1 << (uint(i) % wordSize)
	return nil
}

// Clear clears flag i.
func (m *Mask) Clear(i int) error {
	if !inRange(i) {
		return fmt.Errorf("bit index %d out of range [0, %d)", i, Size)
	}
	m.words[i/wordSize] &^= 1 << (uint(i) % wordSize)
	return nil
}

// Truncate returns a copy of m with every flag at index >= n cleared.
func (m Mask) Truncate(n int) Mask {
	if n <= 0 {
		return Mask{}
	}
	if n >= Size {
		return m
	}
	out := m
	full := n / wordSize
	if rem := uint(n) % wordSize; rem != 0 {
		out.words[full] &= (uint64(1) << rem) - 1
		full++
	}
	for i := full; i < numWords; i++ {
		out.words[i] = 0
	}
	return out
}

// Count returns the number of set flags.
func (m Mask) Count() int {
	n := 0
	for _, w := range m.words {
		for w != 0 {
			w &= w - 1
			n++
		}
	}
	return n
}

// Empty reports whether no flag is set.
func (m Mask) Empty() bool {
	return m.words == [numWords]uint64{}
}

// Equal reports whether both masks hold the same flags.
func (m Mask) Equal(other Mask) bool {
	return m.words == other.words
}

// Words returns the raw words, lowest bits first.
func (m Mask) Words() [4]uint64 {
	return m.words
}

// Indices returns the set flags in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i := 0; i < Size; i++ {
		if m.Test(i) {
			out = append(out, i)
		}
	}
	return out
}

// String renders the mask as four hex words, highest first.
func (m Mask) String() string {
	return fmt.Sprintf("%016x:%016x:%016x:%016x", m.words[3], m.words[2], m.words[1], m.words[0])
}
