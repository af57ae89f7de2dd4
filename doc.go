// Package huff provides a byte oriented Huffman compressor.
//
// The compressor counts byte frequencies, builds a Huffman tree by merging the
// two lightest nodes until one root remains, and writes a container made of a
// 16 bit header (padding bit count, tree size), the tree in preorder and the
// packed bitstream.
//
// The implementation lives in the huffman package; cmd/huff is a thin command
// line around it.
package huff

import "github.com/blang/semver/v4"

var Version = semver.MustParse("0.1.0")
