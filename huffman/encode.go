package huffman

import (
	"fmt"

	"github.com/icza/bitio"
)

// encode writes the code of every byte of d and returns the number of bits written.
func encode(w *bitio.Writer, table *CodeTable, d []byte) (uint64, error) {
	var nbBits uint64
	for i, s := range d {
		c := table.codes[s]
		if len(c) == 0 {
			return nbBits, fmt.Errorf("%w: no code for symbol 0x%02x at index %d", ErrInternalConsistency, s, i)
		}
		if len(c) <= 64 {
			w.TryWriteBits(table.packed[s], uint8(len(c)))
		} else {
			for _, b := range c {
				w.TryWriteBool(b == 1)
			}
		}
		nbBits += uint64(len(c))
	}
	return nbBits, w.TryError
}

// paddingFor returns the number of zero bits completing the last byte of a nbBits long stream.
func paddingFor(nbBits uint64) uint8 {
	return uint8((8 - nbBits%8) % 8)
}
