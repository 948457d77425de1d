package ght

import "fmt"

// FilterMode selects how Filter.Min/Max bound an attribute's real value.
type FilterMode int

const (
	// FilterGreaterThan keeps values > Min.
	FilterGreaterThan FilterMode = iota
	// FilterLessThan keeps values < Max.
	FilterLessThan
	// FilterBetween keeps values in [Min, Max].
	FilterBetween
	// FilterEqual keeps values == Min.
	FilterEqual
)

// Filter is an attribute predicate over a single dimension, used to prune
// a tree's subtrees.
type Filter struct {
	Dim  *Dimension
	Mode FilterMode
	Min  float64
	Max  float64
}

func (f Filter) keep(val float64) (bool, error) {
	switch f.Mode {
	case FilterGreaterThan:
		return val > f.Min, nil
	case FilterLessThan:
		return val < f.Max, nil
	case FilterBetween:
		return val >= f.Min && val <= f.Max, nil
	case FilterEqual:
		return val == f.Min, nil
	default:
		return false, fmt.Errorf("ght: invalid filter mode %d", f.Mode)
	}
}

// filterNode implements the depth-first copy-and-prune algorithm: a node
// holding a disqualifying value for f.Dim prunes its whole subtree; a leaf
// with no value for f.Dim is kept as-is (inherit-from-parent semantics — a
// compacted ancestor's value is presumed to cover it).
func filterNode(n *Node, f Filter) (*Node, error) {
	if n == nil {
		return nil, nil
	}

	if attr := n.Attribute(f.Dim); attr != nil {
		keep, err := f.keep(attr.GetReal())
		if err != nil {
			return nil, err
		}
		if !keep {
			return nil, nil
		}
	}

	if n.NumChildren() == 0 {
		return cloneNodeShallow(n), nil
	}

	var copyNode *Node
	for i := 0; i < n.NumChildren(); i++ {
		childCopy, err := filterNode(n.children.At(i), f)
		if err != nil {
			return nil, err
		}
		if childCopy == nil {
			continue
		}
		if copyNode == nil {
			copyNode = cloneNodeShallow(n)
		}
		copyNode.addChild(childCopy)
	}
	return copyNode, nil
}

// cloneNodeShallow copies a node's own hash and attribute chain, without
// its children — callers attach filtered children (or none, for a leaf)
// themselves.
func cloneNodeShallow(n *Node) *Node {
	c := &Node{hash: n.hash, hasHash: n.hasHash}
	c.attributes = cloneAttrs(n.attributes)
	return c
}
