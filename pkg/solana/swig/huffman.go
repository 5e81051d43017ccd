package swig

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/antojoseph/visualsign-parser-sub000/pkg/vsign"
)

// Swig compresses the WebAuthn origin string with a canonical Huffman code.
// The tree is serialized as 3-byte nodes (type, left-or-char, right) with the
// root stored last; the bit stream is read most-significant bit first, and
// traversal restarts at the root after every emitted byte.
const huffmanNodeSize = 3

// DecodeHuffman decodes exactly decodedLen bytes from the bit stream using
// the serialized tree, and requires the result to be valid UTF-8.
func DecodeHuffman(tree, encoded []byte, decodedLen int) (string, error) {
	if len(tree) == 0 || len(tree)%huffmanNodeSize != 0 {
		return "", errors.Wrapf(vsign.ErrMalformedLength, "huffman tree %d bytes, want a positive multiple of %d", len(tree), huffmanNodeSize)
	}

	nodeCount := len(tree) / huffmanNodeSize
	rootIndex := nodeCount - 1
	current := rootIndex
	decoded := make([]byte, 0, decodedLen)

	isLeaf := func(index int) bool {
		return tree[index*huffmanNodeSize] == 0
	}

bits:
	for _, b := range encoded {
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if len(decoded) == decodedLen {
				break bits
			}

			if isLeaf(current) {
				return "", errors.Wrap(vsign.ErrMalformedLength, "huffman traversal reached a leaf mid-symbol")
			}

			offset := current * huffmanNodeSize
			if b&mask != 0 {
				current = int(tree[offset+2])
			} else {
				current = int(tree[offset+1])
			}
			if current >= nodeCount {
				return "", errors.Wrap(vsign.ErrMalformedLength, "huffman child index out of range")
			}

			if isLeaf(current) {
				decoded = append(decoded, tree[current*huffmanNodeSize+1])
				current = rootIndex
			}
		}
	}

	if len(decoded) != decodedLen {
		return "", errors.Wrapf(vsign.ErrTruncated, "huffman stream produced %d of %d bytes", len(decoded), decodedLen)
	}
	if !utf8.Valid(decoded) {
		return "", errors.Wrap(vsign.ErrMalformedLength, "huffman output is not valid UTF-8")
	}
	return string(decoded), nil
}
