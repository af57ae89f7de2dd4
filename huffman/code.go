package huffman

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Code is the path from the root to a leaf, one entry per edge: 0 for left, 1 for right.
type Code []uint8

func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(len(c))
	for _, b := range c {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

// CodeTable maps every symbol of a tree to its code.
// It is built once from a tree and never modified.
type CodeTable struct {
	codes  [NbSymbs]Code
	packed [NbSymbs]uint64 // codes of at most 64 bits, most significant bit first
}

// NewCodeTable walks t depth first and records the path to every leaf.
// A tree reduced to a single leaf gets the one bit code 0.
func NewCodeTable(t *Tree) (*CodeTable, error) {
	var table CodeTable

	if t.IsLeaf(t.root) {
		table.set(t.Symbol(t.root), Code{0})
		return &table, nil
	}

	// one slot per edge of the longest path, plus one guard slot
	height := t.Height()
	path := make(Code, 0, height+2)

	type frame struct {
		stackElem
		bit uint8
	}
	stack := make([]frame, 0, height+2)
	stack = append(stack, frame{stackElem: stackElem{t.root, 0}})
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.depth >= cap(path)-1 {
			return nil, fmt.Errorf("%w: code path of length %d exceeds tree height %d", ErrInternalConsistency, e.depth, height)
		}
		if e.depth > 0 {
			path = append(path[:e.depth-1], e.bit)
		}

		left, right := t.Children(e.id)
		if left == NoNode && right == NoNode {
			table.set(t.Symbol(e.id), slices.Clone(path[:e.depth]))
			continue
		}
		if left == NoNode || right == NoNode {
			return nil, fmt.Errorf("%w: internal node %d has a single child", ErrInternalConsistency, e.id)
		}
		stack = append(stack, frame{stackElem{right, e.depth + 1}, 1})
		stack = append(stack, frame{stackElem{left, e.depth + 1}, 0})
	}

	return &table, nil
}

func (table *CodeTable) set(s byte, c Code) {
	table.codes[s] = c
	if len(c) <= 64 {
		var v uint64
		for _, b := range c {
			v = v<<1 | uint64(b)
		}
		table.packed[s] = v
	}
}

// Code returns the code of s, and false if s has none.
func (table *CodeTable) Code(s byte) (Code, bool) {
	c := table.codes[s]
	return c, len(c) != 0
}

// Len returns the code length of s, 0 if s has no code.
func (table *CodeTable) Len(s byte) int {
	return len(table.codes[s])
}

// EncodedLen returns the number of bits needed to encode an input with frequencies f.
func (table *CodeTable) EncodedLen(f *Frequencies) uint64 {
	var nbBits uint64
	for s, c := range f {
		nbBits += c * uint64(len(table.codes[s]))
	}
	return nbBits
}
