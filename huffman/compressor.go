package huffman

import (
	"bytes"
	"context"
	"fmt"

	"github.com/icza/bitio"
)

// Compressor turns byte slices into containers. It reuses its output buffer
// between calls and is not safe for concurrent use.
type Compressor struct {
	buf bytes.Buffer
	bw  *bitio.Writer

	cfg config
}

// NewCompressor returns a new compressor with the given options
func NewCompressor(opts ...Option) (*Compressor, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Compressor{cfg: cfg}, nil
}

// Compress compresses the given data.
// The returned slice is only valid until the next call to Compress.
func (compressor *Compressor) Compress(d []byte) (c []byte, err error) {
	if len(d) == 0 {
		return nil, ErrEmptyInput
	}
	cfg := &compressor.cfg

	// first pass
	freqs, err := CountParallel(context.Background(), d, cfg.nbTasks)
	if err != nil {
		return nil, err
	}
	present := freqs.Present()
	if cfg.format == TreePlain && present.Count() > 1 && present.Test(uint(cfg.sentinel)) {
		return nil, fmt.Errorf("%w: byte 0x%02x", ErrSentinelCollision, cfg.sentinel)
	}

	tree, err := NewTree(&freqs)
	if err != nil {
		return nil, err
	}
	if w := tree.Weight(); w != uint64(len(d)) {
		return nil, fmt.Errorf("%w: root weight %d for %d input bytes", ErrInternalConsistency, w, len(d))
	}
	codes, err := NewCodeTable(tree)
	if err != nil {
		return nil, err
	}

	nbBits := codes.EncodedLen(&freqs)
	treeSize := cfg.treeSize(tree, present)
	if treeSize > MaxTreeSize {
		return nil, fmt.Errorf("%w: tree of %d bytes does not fit the header", ErrInternalConsistency, treeSize)
	}
	h := Header{Padding: paddingFor(nbBits), TreeSize: uint16(treeSize)}

	// second pass
	compressor.buf.Reset()
	compressor.buf.Grow(HeaderSize + treeSize + int((nbBits+7)/8))
	compressor.buf.Write(h.Bytes())
	compressor.bw = bitio.NewWriter(&compressor.buf)

	cfg.writeTree(compressor.bw, tree)
	written, err := encode(compressor.bw, codes, d)
	if err != nil {
		return nil, err
	}
	if written != nbBits {
		return nil, fmt.Errorf("%w: wrote %d bits, expected %d", ErrInternalConsistency, written, nbBits)
	}
	if err := compressor.bw.Close(); err != nil {
		return nil, err
	}

	c = compressor.buf.Bytes()
	if expected := HeaderSize + treeSize + int((nbBits+7)/8); len(c) != expected {
		return nil, fmt.Errorf("%w: container of %d bytes, expected %d", ErrInternalConsistency, len(c), expected)
	}

	cfg.log.Debug().
		Int("inputSize", len(d)).
		Int("nbSymbols", tree.NbLeaves()).
		Uint16("treeSize", h.TreeSize).
		Uint8("padding", h.Padding).
		Uint64("nbBits", nbBits).
		Int("outputSize", len(c)).
		Msg("compressed")

	return c, nil
}

// Compress compresses d into a freshly allocated container.
func Compress(d []byte, opts ...Option) ([]byte, error) {
	compressor, err := NewCompressor(opts...)
	if err != nil {
		return nil, err
	}
	return compressor.Compress(d)
}

// Decompress rebuilds the tree stored in c and decodes its payload.
// On error no partial output is returned.
func Decompress(c []byte, opts ...Option) ([]byte, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	h, treeBytes, payload, err := split(c)
	if err != nil {
		return nil, err
	}
	tree, err := cfg.readTree(treeBytes)
	if err != nil {
		return nil, err
	}
	d, err := decode(tree, payload, h.Padding)
	if err != nil {
		return nil, err
	}

	cfg.log.Debug().
		Int("inputSize", len(c)).
		Int("nbSymbols", tree.NbLeaves()).
		Uint16("treeSize", h.TreeSize).
		Uint8("padding", h.Padding).
		Int("outputSize", len(d)).
		Msg("decompressed")

	return d, nil
}
