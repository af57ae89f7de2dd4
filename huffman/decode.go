package huffman

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// decode walks t from the root for every meaningful bit of payload, 0 going
// left and 1 going right, and emits a symbol each time a leaf is reached.
// The last padding bits of the payload are never read.
func decode(t *Tree, payload []byte, padding uint8) ([]byte, error) {
	nbBits := 8 * uint64(len(payload))
	if nbBits == 0 || uint64(padding) > nbBits {
		return nil, fmt.Errorf("%w: %d padding bits with a %d byte payload", ErrMalformedContainer, padding, len(payload))
	}
	nbBits -= uint64(padding)

	root := t.root
	if t.IsLeaf(root) {
		// every bit is a complete code
		return bytes.Repeat([]byte{t.Symbol(root)}, int(nbBits)), nil
	}

	out := make([]byte, 0, 2*len(payload))
	in := bitio.NewReader(bytes.NewReader(payload))

	curr := root
	for i := uint64(0); i < nbBits; i++ {
		n := &t.nodes[curr]
		if in.TryReadBool() {
			curr = n.right
		} else {
			curr = n.left
		}
		if t.IsLeaf(curr) {
			out = append(out, t.nodes[curr].symbol)
			curr = root
		}
	}
	if in.TryError != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", ErrMalformedContainer, in.TryError)
	}
	if curr != root {
		return nil, fmt.Errorf("%w: payload ends inside a code after %d symbols", ErrTruncatedStream, len(out))
	}
	return out, nil
}
