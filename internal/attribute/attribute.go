// Package attribute implements the packed scalar values that hang off a
// trie node: each Attribute ties a value to a Dimension and packs it into
// a small fixed-size byte array using the dimension's scale and offset.
package attribute

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pramsey-labs/ght/internal/schema"
)

// Attribute is one packed value in a node's attribute chain. raw holds the
// packed integer or float value in the dimension's wire type, always
// stored little-endian regardless of host byte order; a reader for a
// big-endian stream swaps bytes on the way in instead.
type Attribute struct {
	Dim  *schema.Dimension
	Next *Attribute
	raw  [8]byte
}

// NewFromReal packs a real value into a fresh Attribute for dim. The
// packed value is round((real-offset)/scale) reinterpreted as dim.Type;
// out-of-range values wrap the same way a truncating cast would.
func NewFromReal(dim *schema.Dimension, real float64) (*Attribute, error) {
	if dim == nil {
		return nil, fmt.Errorf("attribute: nil dimension")
	}
	packed := math.Round((real - dim.Offset) / dim.Scale)
	a := &Attribute{Dim: dim}
	putPacked(a.raw[:], dim.Type, packed)
	return a, nil
}

// GetReal unpacks the attribute's value back to a real number:
// raw*scale + offset.
func (a *Attribute) GetReal() float64 {
	packed := getPacked(a.raw[:], a.Dim.Type)
	return packed*a.Dim.Scale + a.Dim.Offset
}

// Raw returns the packed bytes (dimension-type-sized prefix of the inline
// array), for serialization.
func (a *Attribute) Raw() []byte {
	n := a.Dim.Type.Size()
	return a.raw[:n]
}

// SetRaw installs packed bytes read off the wire.
func (a *Attribute) SetRaw(b []byte) {
	copy(a.raw[:], b)
}

func putPacked(raw []byte, t schema.ScalarType, v float64) {
	switch t {
	case schema.Int8:
		raw[0] = byte(int8(v))
	case schema.Uint8:
		raw[0] = byte(uint8(v))
	case schema.Int16:
		binary.LittleEndian.PutUint16(raw, uint16(int16(v)))
	case schema.Uint16:
		binary.LittleEndian.PutUint16(raw, uint16(v))
	case schema.Int32:
		binary.LittleEndian.PutUint32(raw, uint32(int32(v)))
	case schema.Uint32:
		binary.LittleEndian.PutUint32(raw, uint32(v))
	case schema.Int64:
		binary.LittleEndian.PutUint64(raw, uint64(int64(v)))
	case schema.Uint64:
		binary.LittleEndian.PutUint64(raw, uint64(v))
	case schema.Float32:
		binary.LittleEndian.PutUint32(raw, math.Float32bits(float32(v)))
	case schema.Float64:
		binary.LittleEndian.PutUint64(raw, math.Float64bits(v))
	}
}

func getPacked(raw []byte, t schema.ScalarType) float64 {
	switch t {
	case schema.Int8:
		return float64(int8(raw[0]))
	case schema.Uint8:
		return float64(raw[0])
	case schema.Int16:
		return float64(int16(binary.LittleEndian.Uint16(raw)))
	case schema.Uint16:
		return float64(binary.LittleEndian.Uint16(raw))
	case schema.Int32:
		return float64(int32(binary.LittleEndian.Uint32(raw)))
	case schema.Uint32:
		return float64(binary.LittleEndian.Uint32(raw))
	case schema.Int64:
		return float64(int64(binary.LittleEndian.Uint64(raw)))
	case schema.Uint64:
		return float64(binary.LittleEndian.Uint64(raw))
	case schema.Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case schema.Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw))
	default:
		return 0
	}
}

// Append pushes attr onto the tail of chain, returning the (possibly new)
// head. O(n) in chain length, which is expected to stay small (1-8 dims).
func Append(chain *Attribute, attr *Attribute) *Attribute {
	if chain == nil {
		return attr
	}
	cur := chain
	for cur.Next != nil {
		cur = cur.Next
	}
	cur.Next = attr
	return chain
}

// Get returns the attribute in chain for dim, by pointer identity, or nil
// if dim does not appear.
func Get(chain *Attribute, dim *schema.Dimension) *Attribute {
	for a := chain; a != nil; a = a.Next {
		if a.Dim == dim {
			return a
		}
	}
	return nil
}

// Delete removes the first attribute for dim from chain, returning the
// (possibly new) head. It is a no-op if dim is absent.
func Delete(chain *Attribute, dim *schema.Dimension) *Attribute {
	if chain == nil {
		return nil
	}
	if chain.Dim == dim {
		return chain.Next
	}
	prev := chain
	for cur := chain.Next; cur != nil; cur = cur.Next {
		if cur.Dim == dim {
			prev.Next = cur.Next
			return chain
		}
		prev = cur
	}
	return chain
}

// Count returns the number of attributes in chain.
func Count(chain *Attribute) int {
	n := 0
	for a := chain; a != nil; a = a.Next {
		n++
	}
	return n
}

// Clone deep-copies a chain, preserving dimension references: the
// Dimension pointers are shared, never copied.
func Clone(chain *Attribute) *Attribute {
	if chain == nil {
		return nil
	}
	head := &Attribute{Dim: chain.Dim, raw: chain.raw}
	cur := head
	for a := chain.Next; a != nil; a = a.Next {
		cur.Next = &Attribute{Dim: a.Dim, raw: a.raw}
		cur = cur.Next
	}
	return head
}

// Union deep-clones a's chain, then appends a clone of every attribute in
// b whose dimension (by pointer identity) isn't already present.
func Union(a, b *Attribute) *Attribute {
	result := Clone(a)
	for attr := b; attr != nil; attr = attr.Next {
		if Get(result, attr.Dim) != nil {
			continue
		}
		result = Append(result, &Attribute{Dim: attr.Dim, raw: attr.raw})
	}
	return result
}
