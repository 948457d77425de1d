package ght

import (
	"errors"
	"fmt"
	"io"

	"github.com/pramsey-labs/ght/internal/iostream"
)

// Tree wire layout:
//
//	u8  endian              0 = big-endian, 1 = little-endian
//	u8  format_version
//	u8  max_hash_length
//	Node root               recursive
//
// Node wire layout:
//
//	u8  hash_length         0 if hash is absent
//	u8  hash_bytes[hash_length]
//	u8  attr_count
//	Attribute attrs[attr_count]
//	u8  child_count
//	Node children[child_count]
//
// Attribute wire layout:
//
//	u8  dim_position
//	u8  raw[sizeof(dim.type)]
//
// This package always writes attribute raw bytes little-endian and always
// emits endianLittle in the header; a reader that finds endianBig
// byte-swaps every multi-byte raw value it reads, so files written by a
// genuinely big-endian peer still load.
//
// The node count a Tree reports through NumNodes is not itself part of the
// wire format — it is recovered on read by walking the node tree and
// counting leaves (plus one for every node that carries hash-less
// duplicates of its own point), rather than by counting every interior
// node a SPLIT produced. A point dropped as a duplicate at build time
// (AllowDuplicates false) counts toward NumNodes on the built tree but
// leaves no node behind, so it is not counted after a read.

// WriteTo serializes t to w: header followed by the recursive node tree.
// w is not closed; callers own its lifecycle.
func (t *Tree) WriteTo(w *iostream.Writer) error {
	before := w.Written()

	if err := w.WriteByte(endianLittle); err != nil {
		return err
	}
	if err := w.WriteByte(t.config.FormatVersion); err != nil {
		return err
	}
	if err := w.WriteByte(t.config.MaxHashLength); err != nil {
		return err
	}
	if err := writeNode(w, t.root); err != nil {
		return err
	}

	t.config.Metrics.addBytesWritten(w.Written() - before)
	return nil
}

func writeNode(w *iostream.Writer, n *Node) error {
	var hash string
	if n != nil {
		if h, ok := n.Hash(); ok {
			hash = h
		}
	}
	if len(hash) > 255 {
		return fmt.Errorf("ght: hash %q exceeds 255-byte wire length", hash)
	}
	if err := w.WriteByte(byte(len(hash))); err != nil {
		return err
	}
	if len(hash) > 0 {
		if _, err := w.Write([]byte(hash)); err != nil {
			return err
		}
	}

	if n == nil {
		if err := w.WriteByte(0); err != nil { // attr_count
			return err
		}
		return w.WriteByte(0) // child_count
	}

	attrCount := countAttrs(n.attributes)
	if attrCount > 255 {
		return fmt.Errorf("ght: attribute chain of %d exceeds 255-entry wire length", attrCount)
	}
	if err := w.WriteByte(byte(attrCount)); err != nil {
		return err
	}
	for a := n.attributes; a != nil; a = a.Next {
		if err := w.WriteByte(a.Dim.Position); err != nil {
			return err
		}
		if _, err := w.Write(a.Raw()); err != nil {
			return err
		}
	}

	childCount := n.NumChildren()
	if childCount > 255 {
		return fmt.Errorf("ght: child count %d exceeds 255-entry wire length", childCount)
	}
	if err := w.WriteByte(byte(childCount)); err != nil {
		return err
	}
	for i := 0; i < childCount; i++ {
		if err := writeNode(w, n.children.At(i)); err != nil {
			return err
		}
	}
	return nil
}

// ReadTree deserializes a tree previously written by WriteTo. s must be the
// same schema (by dimension position and type) the tree was written with;
// it is not recorded in the stream. The returned tree's NumNodes is the
// number of leaves read back, matching the number of points originally
// inserted.
func ReadTree(r *iostream.Reader, s *Schema, cfg Config) (*Tree, error) {
	before := r.Pos()

	endian, err := r.ReadByte()
	if err != nil {
		return nil, shortRead(1, err)
	}
	swap := endian == endianBig

	version, err := r.ReadByte()
	if err != nil {
		return nil, shortRead(1, err)
	}
	if version != cfg.FormatVersion {
		if cfg.FormatVersion == 0 {
			// Caller passed a bare Config{}; fall back to the package's
			// own version rather than rejecting every file outright.
			if version != FormatVersion {
				return nil, &ErrVersionMismatch{Got: version, Want: FormatVersion}
			}
		} else {
			return nil, &ErrVersionMismatch{Got: version, Want: cfg.FormatVersion}
		}
	}

	maxLen, err := r.ReadByte()
	if err != nil {
		return nil, shortRead(1, err)
	}
	cfg.MaxHashLength = maxLen
	cfg.FormatVersion = version

	t, err := NewTree(s, cfg)
	if err != nil {
		return nil, err
	}

	root, leaves, err := readNode(r, s, swap)
	if err != nil {
		return nil, err
	}
	t.root = root
	t.numNodes = leaves

	cfg.Metrics.addBytesRead(r.Pos() - before)
	return t, nil
}

// readNode parses one recursive node record and returns it along with the
// number of points stored beneath and including it: every node with no
// children, plus every node that carries hash-less duplicates.
func readNode(r *iostream.Reader, s *Schema, swap bool) (*Node, uint32, error) {
	hashLen, err := r.ReadByte()
	if err != nil {
		return nil, 0, shortRead(1, err)
	}

	n := newNode()
	if hashLen > 0 {
		hb := make([]byte, hashLen)
		if _, err := r.Read(hb); err != nil {
			return nil, 0, shortRead(int(hashLen), err)
		}
		n.setHash(string(hb))
	}

	attrCount, err := r.ReadByte()
	if err != nil {
		return nil, 0, shortRead(1, err)
	}
	for i := 0; i < int(attrCount); i++ {
		pos, err := r.ReadByte()
		if err != nil {
			return nil, 0, shortRead(1, err)
		}
		dim, err := s.Dimension(int(pos))
		if err != nil {
			return nil, 0, fmt.Errorf("ght: attribute dim_position %d: %w", pos, err)
		}
		raw := make([]byte, dim.Type.Size())
		if _, err := r.Read(raw); err != nil {
			return nil, 0, shortRead(len(raw), err)
		}
		if swap {
			reverse(raw)
		}
		attr, err := newAttribute(dim, 0)
		if err != nil {
			return nil, 0, err
		}
		attr.SetRaw(raw)
		n.AddAttribute(attr)
	}

	childCount, err := r.ReadByte()
	if err != nil {
		return nil, 0, shortRead(1, err)
	}

	if childCount == 0 {
		return n, 1, nil
	}

	var leaves uint32
	hasDup := false
	for i := 0; i < int(childCount); i++ {
		child, childLeaves, err := readNode(r, s, swap)
		if err != nil {
			return nil, 0, err
		}
		n.addChild(child)
		leaves += childLeaves
		if _, ok := child.Hash(); !ok {
			hasDup = true
		}
	}
	if hasDup {
		// The node's own point, stored alongside its hash-less duplicates.
		leaves++
	}
	return n, leaves, nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func shortRead(wanted int, cause error) error {
	if errors.Is(cause, io.EOF) || errors.Is(cause, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", &ErrShortRead{Wanted: wanted, Got: 0}, cause)
	}
	return cause
}

// Save serializes t to path, refusing to overwrite an existing file, gzip-
// framing the bytes when t's config requests compression.
func (t *Tree) Save(path string) error {
	w, err := iostream.NewFileWriter(path, t.config.Compression, t.config.Logger)
	if err != nil {
		return err
	}
	if err := t.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// LoadTree reads a tree previously written by Save.
func LoadTree(path string, s *Schema, cfg Config) (*Tree, error) {
	r, err := iostream.NewFileReader(path, cfg.Compression, cfg.Logger)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadTree(r, s, cfg)
}

// Bytes serializes t to an in-memory buffer.
func (t *Tree) Bytes() ([]byte, error) {
	w := iostream.NewMemWriter(t.config.Logger)
	if err := t.WriteTo(w); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// TreeFromBytes deserializes a tree previously produced by (*Tree).Bytes.
func TreeFromBytes(data []byte, s *Schema, cfg Config) (*Tree, error) {
	r := iostream.NewMemReader(data, cfg.Logger)
	return ReadTree(r, s, cfg)
}
