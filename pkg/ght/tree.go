package ght

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/pramsey-labs/ght/internal/geohash"
)

// Tree is the top-level GHT container: a root node, the schema its points'
// attributes follow, and the config that shaped how it was built.
type Tree struct {
	root     *Node
	schema   *Schema
	numNodes uint32
	config   Config
}

// NewTree creates an empty tree for the given schema and config.
// cfg.MaxHashLength defaults to 18 (and all other zero-valued fields to
// DefaultConfig's values) when cfg is the zero Config.
func NewTree(s *Schema, cfg Config) (*Tree, error) {
	if cfg.MaxHashLength == 0 {
		cfg.MaxHashLength = DefaultConfig().MaxHashLength
	}
	if cfg.FormatVersion == 0 {
		cfg.FormatVersion = FormatVersion
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Tree{schema: s, config: cfg}, nil
}

// Schema returns the tree's dimension schema.
func (t *Tree) Schema() *Schema {
	return t.schema
}

// Config returns the tree's build/serialization config.
func (t *Tree) Config() Config {
	return t.config
}

// Root returns the tree's root node, or nil if the tree is empty.
func (t *Tree) Root() *Node {
	return t.root
}

// NumNodes reports the number of points inserted (not the number of
// interior trie nodes).
func (t *Tree) NumNodes() uint32 {
	return t.numNodes
}

// Point pairs a coordinate with the dimension values beyond X/Y it
// carries, keyed by dimension name.
type Point struct {
	Coordinate Coordinate
	Values     map[string]float64
}

// InsertNode inserts a single full-length-hash node into the tree,
// delegating to the five-case trie insertion algorithm once a root exists.
func (t *Tree) InsertNode(n *Node) error {
	if t.root == nil {
		t.root = n
		t.numNodes++
		t.config.Metrics.incPointsInserted()
		return nil
	}
	res, err := insertNode(t.root, n, t.config.AllowDuplicates, int(t.config.MaxHashLength), t.config)
	if err != nil {
		return err
	}
	if res != placed {
		rootHash, _ := t.root.Hash()
		newHash, _ := n.Hash()
		return &ErrInsertFailed{RootHash: rootHash, NewHash: newHash}
	}
	t.numNodes++
	t.config.Metrics.incPointsInserted()
	return nil
}

// BuildFromPoints builds a fresh tree from a batch of points: each becomes
// a full-length-hash leaf node (geohash-encoded at MaxHashLength
// resolution), inserted one by one. Per-point failures are collected into
// a *multierror.Error rather than aborting the whole batch, matching the
// ambient error-aggregation style used for batch operations; a point that
// fails to encode or insert is skipped and its error recorded.
func BuildFromPoints(s *Schema, points []Point, cfg Config) (*Tree, *multierror.Error) {
	var errs *multierror.Error

	t, err := NewTree(s, cfg)
	if err != nil {
		errs = multierror.Append(errs, err)
		return nil, errs
	}

	for i, p := range points {
		n, err := NewNodeFromCoordinate(p.Coordinate, int(t.config.MaxHashLength))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("point %d: %w", i, err))
			continue
		}
		for name, v := range p.Values {
			dim, err := s.DimensionByName(name)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("point %d: %w", i, err))
				continue
			}
			attr, err := newAttribute(dim, v)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("point %d: %w", i, err))
				continue
			}
			n.AddAttribute(attr)
		}
		if err := t.InsertNode(n); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("point %d: %w", i, err))
		}
	}

	return t, errs
}

// FromNodeList adopts list[0] as the new tree's root, then inserts every
// remaining node. If any insertion fails, the partially-built tree is
// discarded (set to nil) and the error returned — partial trees are never
// handed back to the caller.
func FromNodeList(s *Schema, list []*Node, cfg Config) (*Tree, error) {
	if len(list) == 0 {
		return NewTree(s, cfg)
	}
	t, err := NewTree(s, cfg)
	if err != nil {
		return nil, err
	}
	t.root = list[0]
	t.numNodes = 1
	t.config.Metrics.incPointsInserted()
	for _, n := range list[1:] {
		if n == nil {
			continue
		}
		if err := t.InsertNode(n); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ToNodeList flattens the tree into leaf nodes carrying full-length hashes
// and fully-unioned attribute chains — the inverse of batch build modulo
// attribute compaction.
func (t *Tree) ToNodeList() []*Node {
	var out []*Node
	if t.root == nil {
		return out
	}
	toNodeListRec(t.root, "", nil, &out)
	return out
}

// toNodeListRec emits one leaf entry per leaf, *and* one entry for any
// interior node that owns a hash-less (duplicate-bearing) child — that
// child represents a duplicate of the node's own point, so the node's own
// occurrence needs its own entry too, alongside the duplicate's.
func toNodeListRec(n *Node, ancestorHash string, ancestorAttrs *Attribute, out *[]*Node) {
	hash := ancestorHash
	if h, ok := n.Hash(); ok {
		hash += h
	}
	union := unionAttrs(n.Attributes(), ancestorAttrs)

	nodeIsLeaf := false
	if n.NumChildren() > 0 {
		for i := 0; i < n.NumChildren(); i++ {
			child := n.children.At(i)
			toNodeListRec(child, hash, union, out)
			if _, ok := child.Hash(); !ok {
				nodeIsLeaf = true
			}
		}
	} else {
		nodeIsLeaf = true
	}

	if nodeIsLeaf {
		leaf := NewNodeFromHash(hash)
		if union != nil {
			leaf.attributes = union
		}
		*out = append(*out, leaf)
	}
}

// Extent computes the bounding Area over every leaf coordinate in the
// tree, depth-first.
func (t *Tree) Extent() (Area, error) {
	area := Area{
		X: geohash.Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Y: geohash.Range{Min: math.Inf(1), Max: math.Inf(-1)},
	}
	if t.root == nil {
		return area, nil
	}
	if err := extentRec(t.root, "", &area); err != nil {
		return Area{}, err
	}
	return area, nil
}

func extentRec(n *Node, ancestorHash string, area *Area) error {
	hash := ancestorHash
	if h, ok := n.Hash(); ok {
		hash += h
	}
	// A node that carries hash-less duplicates of its own point contributes
	// that point once, just as a childless leaf does.
	isLeaf := n.IsLeaf()
	for i := 0; i < n.NumChildren(); i++ {
		if _, ok := n.children.At(i).Hash(); !ok {
			isLeaf = true
		}
	}
	if isLeaf {
		a, err := geohash.Decode(hash)
		if err != nil {
			return err
		}
		c := a.Center()
		if c.X < area.X.Min {
			area.X.Min = c.X
		}
		if c.X > area.X.Max {
			area.X.Max = c.X
		}
		if c.Y < area.Y.Min {
			area.Y.Min = c.Y
		}
		if c.Y > area.Y.Max {
			area.Y.Max = c.Y
		}
	}
	for i := 0; i < n.NumChildren(); i++ {
		child := n.children.At(i)
		if _, ok := child.Hash(); !ok {
			continue
		}
		if err := extentRec(child, hash, area); err != nil {
			return err
		}
	}
	return nil
}

// CompactAttributes promotes attribute values onto common ancestors for
// every dimension at schema position ≥ 2 (positions 0 and 1 are X/Y,
// encoded in the hash and never carried as packed attributes).
func (t *Tree) CompactAttributes() {
	if t.root == nil {
		return
	}
	for i := 2; i < t.schema.NumDims(); i++ {
		dim, err := t.schema.Dimension(i)
		if err != nil {
			continue
		}
		compactAttribute(t.root, dim, compactionDelta, t.config.Metrics, t.config.Logger)
	}
}

// Filter returns a new tree containing only the subtrees whose attributes
// satisfy f along the path from root to leaf.
func (t *Tree) Filter(f Filter) (*Tree, error) {
	if t.root == nil {
		return NewTree(t.schema, t.config)
	}
	filtered, err := filterNode(t.root, f)
	if err != nil {
		return nil, err
	}
	out, err := NewTree(t.schema, t.config)
	if err != nil {
		return nil, err
	}
	out.root = filtered
	if filtered != nil {
		out.numNodes = countLeaves(filtered)
	}
	return out, nil
}

func countLeaves(n *Node) uint32 {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	var c uint32
	hasDup := false
	for i := 0; i < n.NumChildren(); i++ {
		child := n.children.At(i)
		c += countLeaves(child)
		if _, ok := child.Hash(); !ok {
			hasDup = true
		}
	}
	if hasDup {
		// The node's own point, stored alongside its hash-less duplicates.
		c++
	}
	return c
}

func unionAttrs(a, b *Attribute) *Attribute {
	if a == nil {
		return cloneAttrs(b)
	}
	return unionClone(a, b)
}

// Logger exposes the tree's configured logger, e.g. for callers composing
// additional structured events around build/serialize calls.
func (t *Tree) Logger() zerolog.Logger {
	return t.config.Logger
}
