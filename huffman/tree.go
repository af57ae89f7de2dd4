package huffman

// NodeID addresses a node inside a Tree.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = -1

type node struct {
	weight uint64 // sum of the leaf counts below; zero for trees read from a container
	left   NodeID
	right  NodeID
	symbol byte // meaningless for internal nodes
}

// Tree is a Huffman tree stored as an arena of nodes.
// A leaf has no children, an internal node has exactly two.
type Tree struct {
	nodes []node
	root  NodeID
}

// NewTree builds the Huffman tree of the given frequency table.
// The two lightest nodes are repeatedly merged under a new internal node, the
// first one removed becoming its left child. The merged node is inserted after
// the nodes of equal weight, which makes the shape reproducible.
// An all-zero table returns ErrEmptyInput.
func NewTree(f *Frequencies) (*Tree, error) {
	nbSymbols := f.NbSymbols()
	if nbSymbols == 0 {
		return nil, ErrEmptyInput
	}
	nbNodes := 2*nbSymbols - 1

	t := &Tree{nodes: make([]node, 0, nbNodes), root: NoNode}
	l := newWeightList(t, nbNodes)
	for s, c := range f {
		if c == 0 {
			continue
		}
		l.insert(t.newLeaf(byte(s), c))
	}

	for l.len > 1 {
		a, err := l.popFront()
		if err != nil {
			return nil, err
		}
		b, err := l.popFront()
		if err != nil {
			return nil, err
		}
		l.insert(t.newInternal(a, b))
	}

	root, err := l.popFront()
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) newLeaf(symbol byte, weight uint64) NodeID {
	t.nodes = append(t.nodes, node{weight: weight, left: NoNode, right: NoNode, symbol: symbol})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) newInternal(left, right NodeID) NodeID {
	var w uint64
	if left != NoNode {
		w += t.nodes[left].weight
	}
	if right != NoNode {
		w += t.nodes[right].weight
	}
	t.nodes = append(t.nodes, node{weight: w, left: left, right: right})
	return NodeID(len(t.nodes) - 1)
}

// Root returns the root node.
func (t *Tree) Root() NodeID { return t.root }

// NbNodes returns the number of leaves and internal nodes.
func (t *Tree) NbNodes() int { return len(t.nodes) }

// NbLeaves returns the number of distinct symbols in the tree.
func (t *Tree) NbLeaves() int {
	n := 0
	for i := range t.nodes {
		if t.IsLeaf(NodeID(i)) {
			n++
		}
	}
	return n
}

// Weight returns the weight of the root, i.e. the length of the input the tree was built from.
func (t *Tree) Weight() uint64 { return t.nodes[t.root].weight }

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	n := &t.nodes[id]
	return n.left == NoNode && n.right == NoNode
}

// Symbol returns the symbol held by leaf id.
func (t *Tree) Symbol(id NodeID) byte { return t.nodes[id].symbol }

// Children returns the left and right children of id.
func (t *Tree) Children(id NodeID) (left, right NodeID) {
	return t.nodes[id].left, t.nodes[id].right
}

// Preorder calls visit on every node: the node, then its left subtree, then its right subtree.
func (t *Tree) Preorder(visit func(id NodeID)) {
	stack := make([]NodeID, 0, len(t.nodes))
	stack = append(stack, t.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(id)
		n := &t.nodes[id]
		if n.right != NoNode {
			stack = append(stack, n.right)
		}
		if n.left != NoNode {
			stack = append(stack, n.left)
		}
	}
}

type stackElem struct {
	id    NodeID
	depth int
}

// Height returns the depth of the deepest leaf; a single leaf has height 0.
func (t *Tree) Height() int {
	height := 0
	stack := make([]stackElem, 0, len(t.nodes))
	stack = append(stack, stackElem{t.root, 0})
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[e.id]
		if n.right != NoNode {
			stack = append(stack, stackElem{n.right, e.depth + 1})
		}
		if n.left != NoNode {
			stack = append(stack, stackElem{n.left, e.depth + 1})
		}
		if n.left == NoNode && n.right == NoNode && e.depth > height {
			height = e.depth
		}
	}
	return height
}
