package huffman

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/icza/bitio"
)

const (
	HeaderSize = 2

	nbBitsPadding  = 3
	nbBitsTreeSize = 13

	MaxPadding  = 1<<nbBitsPadding - 1
	MaxTreeSize = 1<<nbBitsTreeSize - 1
)

// Header is the first 16 bits of a container, big endian:
// bits 15..13 hold the padding bit count, bits 12..0 the tree size in bytes.
type Header struct {
	Padding  uint8
	TreeSize uint16
}

// Bytes returns the two byte encoding of h.
func (h Header) Bytes() []byte {
	v := uint16(h.Padding&MaxPadding)<<nbBitsTreeSize | h.TreeSize&MaxTreeSize
	return []byte{byte(v >> 8), byte(v)}
}

// ParseHeader reads the header at the start of c.
func ParseHeader(c []byte) (Header, error) {
	if len(c) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformedContainer, len(c))
	}
	v := uint16(c[0])<<8 | uint16(c[1])
	return Header{
		Padding:  uint8(v >> nbBitsTreeSize),
		TreeSize: v & MaxTreeSize,
	}, nil
}

// treeSize returns the number of bytes writeTree produces for t.
// present is the set of symbols held by the leaves of t.
func (cfg *config) treeSize(t *Tree, present *bitset.BitSet) int {
	size := t.NbNodes()
	if cfg.format == TreeEscaped && t.NbNodes() > 1 {
		if present.Test(uint(cfg.sentinel)) {
			size++
		}
		if present.Test(uint(escapeByte)) {
			size++
		}
	}
	return size
}

// writeTree writes t in preorder, one byte per node.
// A single leaf needs no escaping since the root of a larger tree is always internal.
func (cfg *config) writeTree(w *bitio.Writer, t *Tree) {
	if t.IsLeaf(t.root) {
		w.TryWriteByte(t.Symbol(t.root))
		return
	}
	t.Preorder(func(id NodeID) {
		if !t.IsLeaf(id) {
			w.TryWriteByte(cfg.sentinel)
			return
		}
		s := t.Symbol(id)
		if cfg.format == TreeEscaped && (s == cfg.sentinel || s == escapeByte) {
			w.TryWriteByte(escapeByte)
		}
		w.TryWriteByte(s)
	})
}

// readTree rebuilds a tree from its preorder serialization, which must be consumed exactly.
func (cfg *config) readTree(in []byte) (*Tree, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrMalformedContainer)
	}

	t := &Tree{nodes: make([]node, 0, len(in)), root: NoNode}

	// a one byte tree is a single leaf, whatever its value
	if len(in) == 1 {
		t.root = t.newLeaf(in[0], 0)
		return t, nil
	}

	// slots waiting for a subtree; the root slot has no parent
	type slot struct {
		parent NodeID
		right  bool
	}
	stack := []slot{{parent: NoNode}}
	seen := bitset.New(NbSymbs)

	i := 0
	for len(stack) > 0 {
		if i >= len(in) {
			return nil, fmt.Errorf("%w: tree ends with %d subtrees missing", ErrMalformedContainer, len(stack))
		}
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b := in[i]
		i++

		var id NodeID
		switch {
		case b == cfg.sentinel:
			id = t.newInternal(NoNode, NoNode)
			stack = append(stack, slot{id, true}, slot{id, false})
		case cfg.format == TreeEscaped && b == escapeByte:
			if i >= len(in) {
				return nil, fmt.Errorf("%w: dangling escape at tree offset %d", ErrMalformedContainer, i-1)
			}
			b = in[i]
			i++
			if b != cfg.sentinel && b != escapeByte {
				return nil, fmt.Errorf("%w: escaped byte 0x%02x at tree offset %d", ErrMalformedContainer, b, i-1)
			}
			fallthrough
		default:
			if seen.Test(uint(b)) {
				return nil, fmt.Errorf("%w: symbol 0x%02x appears twice in the tree", ErrMalformedContainer, b)
			}
			seen.Set(uint(b))
			id = t.newLeaf(b, 0)
		}

		switch {
		case s.parent == NoNode:
			t.root = id
		case s.right:
			t.nodes[s.parent].right = id
		default:
			t.nodes[s.parent].left = id
		}
	}

	if i != len(in) {
		return nil, fmt.Errorf("%w: %d trailing bytes after the tree", ErrMalformedContainer, len(in)-i)
	}
	if t.IsLeaf(t.root) {
		// only a one byte tree may be a single leaf
		return nil, fmt.Errorf("%w: tree of %d bytes has no internal node", ErrMalformedContainer, len(in))
	}
	return t, nil
}

// split checks the header of c and returns it with the tree and payload regions.
func split(c []byte) (h Header, tree, payload []byte, err error) {
	if h, err = ParseHeader(c); err != nil {
		return
	}
	end := HeaderSize + int(h.TreeSize)
	if end > len(c) {
		err = fmt.Errorf("%w: tree size %d exceeds the %d bytes available", ErrMalformedContainer, h.TreeSize, len(c)-HeaderSize)
		return
	}
	if end == len(c) {
		err = fmt.Errorf("%w: no payload after the tree", ErrMalformedContainer)
		return
	}
	if uint64(h.Padding) > 8*uint64(len(c)-end) {
		err = fmt.Errorf("%w: %d padding bits with a %d byte payload", ErrMalformedContainer, h.Padding, len(c)-end)
		return
	}
	return h, c[HeaderSize:end], c[end:], nil
}

// Info describes a container without decoding its payload.
type Info struct {
	Header
	NbNodes     int
	NbLeaves    int
	Height      int
	PayloadSize int    // bytes
	NbBits      uint64 // meaningful payload bits
}

// Inspect parses the header and the tree of c.
func Inspect(c []byte, opts ...Option) (Info, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Info{}, err
	}
	h, treeBytes, payload, err := split(c)
	if err != nil {
		return Info{}, err
	}
	t, err := cfg.readTree(treeBytes)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Header:      h,
		NbNodes:     t.NbNodes(),
		NbLeaves:    t.NbLeaves(),
		Height:      t.Height(),
		PayloadSize: len(payload),
		NbBits:      8*uint64(len(payload)) - uint64(h.Padding),
	}, nil
}
