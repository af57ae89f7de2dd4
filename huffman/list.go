package huffman

import "fmt"

// weightList keeps tree nodes sorted by ascending weight.
// Links are stored next to the tree arena, next[i] being the successor of node i.
type weightList struct {
	t    *Tree
	next []NodeID
	head NodeID
	len  int
}

func newWeightList(t *Tree, capacity int) *weightList {
	return &weightList{t: t, next: make([]NodeID, 0, capacity), head: NoNode}
}

// insert links node i after every node of lower or equal weight.
func (l *weightList) insert(i NodeID) {
	for int(i) >= len(l.next) {
		l.next = append(l.next, NoNode)
	}

	w := l.t.nodes[i].weight
	if l.head == NoNode || w < l.t.nodes[l.head].weight {
		l.next[i] = l.head
		l.head = i
		l.len++
		return
	}

	curr := l.head
	for l.next[curr] != NoNode && l.t.nodes[l.next[curr]].weight <= w {
		curr = l.next[curr]
	}
	l.next[i] = l.next[curr]
	l.next[curr] = i
	l.len++
}

// popFront unlinks and returns the lightest node.
func (l *weightList) popFront() (NodeID, error) {
	if l.head == NoNode {
		return NoNode, fmt.Errorf("%w: pop from an empty weight list", ErrInternalConsistency)
	}
	i := l.head
	l.head = l.next[i]
	l.next[i] = NoNode
	l.len--
	return i, nil
}

// ids returns the linked nodes in list order.
func (l *weightList) ids() []NodeID {
	res := make([]NodeID, 0, l.len)
	for curr := l.head; curr != NoNode; curr = l.next[curr] {
		res = append(res, curr)
	}
	return res
}
