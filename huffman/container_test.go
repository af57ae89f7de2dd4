package huffman

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/icza/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoded struct {
	payload []byte
	padding uint8
}

func encodeToBytes(table *CodeTable, d []byte) (encoded, error) {
	var bb bytes.Buffer
	w := bitio.NewWriter(&bb)
	nbBits, err := encode(w, table, d)
	if err != nil {
		return encoded{}, err
	}
	if err = w.Close(); err != nil {
		return encoded{}, err
	}
	return encoded{payload: bb.Bytes(), padding: paddingFor(nbBits)}, nil
}

func TestHeader(t *testing.T) {
	h := Header{Padding: 5, TreeSize: 0x1abc}
	b := h.Bytes()
	assert.Equal(t, []byte{0xba, 0xbc}, b)

	back, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, h, back)

	full := Header{Padding: MaxPadding, TreeSize: MaxTreeSize}
	assert.Equal(t, []byte{0xff, 0xff}, full.Bytes())

	_, err = ParseHeader([]byte{0x20})
	require.ErrorIs(t, err, ErrMalformedContainer)
}

func TestPadding(t *testing.T) {
	for nbBits, expected := range []uint8{0, 7, 6, 5, 4, 3, 2, 1, 0, 7} {
		assert.Equal(t, expected, paddingFor(uint64(nbBits)), "nbBits=%d", nbBits)
	}
}

func TestReadTree(t *testing.T) {
	cfg, err := newConfig()
	require.NoError(t, err)

	tree, err := cfg.readTree([]byte("*A**CD*BR"))
	require.NoError(t, err)
	assert.Equal(t, 9, tree.NbNodes())
	if diff := cmp.Diff("*A**CD*BR", preorderSymbols(tree)); diff != "" {
		t.Fatal("unexpected preorder (-want +got):\n" + diff)
	}

	tree, err = cfg.readTree([]byte("*\\**\\\\a"))
	require.NoError(t, err)
	assert.Equal(t, 5, tree.NbNodes())
	left, right := tree.Children(tree.Root())
	assert.Equal(t, byte('*'), tree.Symbol(left))
	l, r := tree.Children(right)
	assert.Equal(t, byte('\\'), tree.Symbol(l))
	assert.Equal(t, byte('a'), tree.Symbol(r))

	// the single leaf of a one byte tree may hold the sentinel
	tree, err = cfg.readTree([]byte("*"))
	require.NoError(t, err)
	assert.True(t, tree.IsLeaf(tree.Root()))
}

func TestReadTreeMalformed(t *testing.T) {
	cfg, err := newConfig()
	require.NoError(t, err)
	plain, err := newConfig(WithTreeFormat(TreePlain))
	require.NoError(t, err)

	for name, in := range map[string][]byte{
		"empty":           {},
		"missing subtree": []byte("*A"),
		"missing leaves":  []byte("***"),
		"trailing bytes":  []byte("*ABC"),
		"dangling escape": []byte("*A\\"),
		"bad escape":      []byte("*\\AB"),
		"duplicate leaf":  []byte("*AA"),
		"leaf then more":  []byte("AB"),
	} {
		_, err := cfg.readTree(in)
		assert.ErrorIs(t, err, ErrMalformedContainer, name)
	}

	// without escaping, a backslash is an ordinary leaf
	tree, err := plain.readTree([]byte("*A\\"))
	require.NoError(t, err)
	assert.Equal(t, 3, tree.NbNodes())
}

func TestWriteTree(t *testing.T) {
	for _, tc := range []struct {
		in       string
		opts     []Option
		expected string
	}{
		{"ABRACADABRA", nil, "*A**CD*BR"},
		{"a**\\", nil, "*\\**\\\\a"},
		{"a**\\", []Option{WithTreeFormat(TreePlain), WithSentinel('#')}, "#*#\\a"},
		{"***", nil, "*"},
	} {
		cfg, err := newConfig(tc.opts...)
		require.NoError(t, err)

		f := Count([]byte(tc.in))
		tree, err := NewTree(&f)
		require.NoError(t, err)

		var bb bytes.Buffer
		w := bitio.NewWriter(&bb)
		cfg.writeTree(w, tree)
		require.NoError(t, w.Close())

		assert.Equal(t, tc.expected, bb.String(), tc.in)
		assert.Equal(t, len(tc.expected), cfg.treeSize(tree, f.Present()), tc.in)

		back, err := cfg.readTree(bb.Bytes())
		require.NoError(t, err)
		assert.Equal(t, preorderSymbols(tree), preorderSymbols(back))
	}
}

func TestDecompressMalformed(t *testing.T) {
	valid, err := Compress([]byte("ABRACADABRA"))
	require.NoError(t, err)

	for name, c := range map[string][]byte{
		"empty":              {},
		"half header":        {0x20},
		"tree size too big":  valid[:5],
		"zero tree size":     {0x00, 0x00, 0x6e},
		"padding no payload": append(Header{Padding: 3, TreeSize: 9}.Bytes(), valid[HeaderSize:HeaderSize+9]...),
		"incomplete tree":    {0x00, 0x02, '*', 'A', 0xff},
		"no payload":         {0x00, 0x01, 'A'},
		"tree without bits":  append(Header{TreeSize: 9}.Bytes(), valid[HeaderSize:HeaderSize+9]...),
	} {
		d, err := Decompress(c)
		assert.ErrorIs(t, err, ErrMalformedContainer, name)
		assert.Nil(t, d, name)

		_, err = Inspect(c)
		assert.ErrorIs(t, err, ErrMalformedContainer, name)
	}
}

func TestDecompressTruncated(t *testing.T) {
	tree := []byte("*A**CD*BR")
	payload := []byte{0x6e, 0x8a}

	// 15 bits: ABRACAD
	c := append(Header{Padding: 1, TreeSize: 9}.Bytes(), tree...)
	c = append(c, payload...)
	d, err := Decompress(c)
	require.NoError(t, err)
	assert.Equal(t, "ABRACAD", string(d))

	// 14 bits end in the middle of D
	c[0] = Header{Padding: 2, TreeSize: 9}.Bytes()[0]
	d, err = Decompress(c)
	require.ErrorIs(t, err, ErrTruncatedStream)
	assert.Nil(t, d)
}

func TestPaddingIsNotDecoded(t *testing.T) {
	// 0b1 followed by seven padding bits which would decode as 'A' if read
	c := append(Header{Padding: 7, TreeSize: 3}.Bytes(), '*', 'A', 'B', 0x80)
	d, err := Decompress(c)
	require.NoError(t, err)
	assert.Equal(t, "B", string(d))
}

func TestEncodeMissingCode(t *testing.T) {
	f := Count([]byte("ab"))
	tree, err := NewTree(&f)
	require.NoError(t, err)
	table, err := NewCodeTable(tree)
	require.NoError(t, err)

	_, err = encodeToBytes(table, []byte("abc"))
	require.ErrorIs(t, err, ErrInternalConsistency)
}

func TestDecodeEmptyPayload(t *testing.T) {
	f := Count([]byte("A"))
	tree, err := NewTree(&f)
	require.NoError(t, err)

	d, err := decode(tree, nil, 0)
	require.ErrorIs(t, err, ErrMalformedContainer)
	assert.Nil(t, d)
}
