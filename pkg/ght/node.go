package ght

import (
	"github.com/pramsey-labs/ght/internal/attribute"
	"github.com/pramsey-labs/ght/internal/geohash"
	"github.com/pramsey-labs/ght/internal/schema"
)

// Attribute is one packed value in a node's attribute chain, tied to a
// Dimension via a stable reference into a Schema.
type Attribute = attribute.Attribute

// Dimension describes a single typed, named, scaled dimension of a Schema.
type Dimension = schema.Dimension

// ScalarType is the packed wire type of an Attribute's value.
type ScalarType = schema.ScalarType

// Scalar types, re-exported for callers constructing a Schema.
const (
	Int8    = schema.Int8
	Uint8   = schema.Uint8
	Int16   = schema.Int16
	Uint16  = schema.Uint16
	Int32   = schema.Int32
	Uint32  = schema.Uint32
	Int64   = schema.Int64
	Uint64  = schema.Uint64
	Float32 = schema.Float32
	Float64 = schema.Float64
)

// Schema is an ordered, name-unique list of Dimensions shared by every
// point stored in a Tree.
type Schema = schema.Schema

// NewSchema builds a Schema from an ordered dimension list.
func NewSchema(dims []Dimension) (*Schema, error) {
	s, err := schema.New(dims)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Coordinate is a (longitude, latitude) pair in WGS84 degrees.
type Coordinate = geohash.Coordinate

// Area is a bounding rectangle, as returned by decoding a hash or by
// Tree.Extent.
type Area = geohash.Area

// NodeList is a dynamic, owning array of child nodes, in insertion order.
type NodeList struct {
	nodes []*Node
}

// newNodeList creates an empty list with the given initial capacity (8 if
// zero), matching the trie's geometric-growth-on-fill policy.
func newNodeList(capacity int) *NodeList {
	if capacity <= 0 {
		capacity = 8
	}
	return &NodeList{nodes: make([]*Node, 0, capacity)}
}

// Len returns the number of children.
func (nl *NodeList) Len() int {
	if nl == nil {
		return 0
	}
	return len(nl.nodes)
}

// At returns the child at index i.
func (nl *NodeList) At(i int) *Node {
	return nl.nodes[i]
}

func (nl *NodeList) add(n *Node) {
	nl.nodes = append(nl.nodes, n)
}

// Node is a trie node: a hash suffix, an owned child list, and an owned
// attribute chain. A node without a hash (Hash reports false) is a
// "duplicate-bearing leaf" — it exists only as a child of a leaf in
// duplicate mode.
type Node struct {
	hash       string
	hasHash    bool
	children   *NodeList
	attributes *Attribute
}

// newNode creates an empty node with no hash, no children, no attributes.
func newNode() *Node {
	return &Node{}
}

// NewNodeFromHash creates a node owning a copy of hash.
func NewNodeFromHash(hash string) *Node {
	return &Node{hash: hash, hasHash: true}
}

// NewNodeFromCoordinate creates a full-length-hash leaf node for coord, at
// the given geohash resolution.
func NewNodeFromCoordinate(coord Coordinate, resolution int) (*Node, error) {
	h, err := geohash.Encode(coord, resolution)
	if err != nil {
		return nil, err
	}
	return NewNodeFromHash(h), nil
}

// Hash returns the node's hash suffix and whether it has one at all
// (duplicate-bearing leaves have none).
func (n *Node) Hash() (string, bool) {
	return n.hash, n.hasHash
}

func (n *Node) setHash(hash string) {
	n.hash = hash
	n.hasHash = true
}

func (n *Node) clearHash() {
	n.hash = ""
	n.hasHash = false
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.children == nil || n.children.Len() == 0
}

// NumChildren returns the number of children n owns.
func (n *Node) NumChildren() int {
	return n.children.Len()
}

// Children returns n's child list (nil if none).
func (n *Node) Children() *NodeList {
	return n.children
}

// Attributes returns the head of n's attribute chain (nil if none).
func (n *Node) Attributes() *Attribute {
	return n.attributes
}

// AddAttribute appends attr to n's attribute chain.
func (n *Node) AddAttribute(attr *Attribute) {
	n.attributes = attribute.Append(n.attributes, attr)
}

// Attribute returns n's attribute for dim, or nil.
func (n *Node) Attribute(dim *Dimension) *Attribute {
	return attribute.Get(n.attributes, dim)
}

// Coordinate decodes n's hash (if any) to its center coordinate.
func (n *Node) Coordinate() (Coordinate, error) {
	if !n.hasHash {
		return Coordinate{}, &ErrInvalidCoordinate{}
	}
	area, err := geohash.Decode(n.hash)
	if err != nil {
		return Coordinate{}, err
	}
	return area.Center(), nil
}

func (n *Node) addChild(child *Node) {
	if n.children == nil {
		n.children = newNodeList(1)
	}
	n.children.add(child)
}

// transferAttributes moves the attribute chain from src to dst, failing if
// dst already carries attributes (an invariant violation — this should
// only ever be invoked right after dst is freshly created).
func transferAttributes(src, dst *Node) error {
	if src.attributes == nil {
		return nil
	}
	if dst.attributes != nil {
		return &ErrAttributeExists{}
	}
	dst.attributes = src.attributes
	src.attributes = nil
	return nil
}

// insertResult is a three-way outcome for a single insertion step, used in
// place of overloading error returns for trie-insertion control flow.
type insertResult int

const (
	// placed means newNode was successfully attached somewhere in this
	// subtree.
	placed insertResult = iota
	// notHere means this subtree's root hash shares nothing usable with
	// newNode's hash (a sibling might still accept it).
	notHere
	// failed means insertion hit an error (e.g. transferAttributes found
	// attributes already on the destination); it is always returned
	// together with a non-nil error.
	failed
)

// insertNode implements the five-case trie insertion algorithm: GLOBAL,
// SAME, CHILD, SPLIT, and NONE, classified by how newNode's hash relates
// to node's. newNode must carry a full-length hash relative to the tree
// root (i.e. maxLen is the cap used for LeafParts, shared across the whole
// insertion).
func insertNode(node, newNode *Node, allowDuplicates bool, maxLen int, cfg Config) (insertResult, error) {
	if !node.hasHash {
		// A hash-less node is a duplicate-bearing leaf: it cannot accept
		// further children.
		return notHere, nil
	}

	kind, nodeLeaf, newLeaf := geohash.LeafParts(node.hash, newNode.hash, maxLen)

	switch kind {
	case geohash.MatchGlobal, geohash.MatchChild:
		newNode.setHash(newLeaf)
		for i := 0; i < node.NumChildren(); i++ {
			child := node.children.At(i)
			res, err := insertNode(child, newNode, allowDuplicates, maxLen, cfg)
			if err != nil {
				return failed, err
			}
			if res == placed {
				return placed, nil
			}
		}
		node.addChild(newNode)
		return placed, nil

	case geohash.MatchSame:
		if allowDuplicates {
			newNode.clearHash()
			node.addChild(newNode)
			return placed, nil
		}
		// Drop the duplicate silently: no averaging or median.
		cfg.Logger.Debug().Str("hash", node.hash).Msg("ght: dropped duplicate point (AllowDuplicates=false)")
		return placed, nil

	case geohash.MatchSplit:
		sibling := NewNodeFromHash(nodeLeaf)
		if err := transferAttributes(node, sibling); err != nil {
			return failed, err
		}
		sibling.children = node.children
		node.children = nil

		node.hash = node.hash[:len(node.hash)-len(nodeLeaf)]
		newNode.hash = newLeaf

		node.addChild(sibling)
		node.addChild(newNode)
		cfg.Metrics.incNodesSplit()
		return placed, nil

	default: // MatchNone
		return notHere, nil
	}
}
