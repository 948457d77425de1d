package ght

import "github.com/rs/zerolog"

// compactionDelta is the tolerance within which an interior node's
// children are considered to agree on an attribute value, and so have it
// promoted to their common ancestor.
const compactionDelta = 1e-8

// compactAttribute recursively promotes dim's value onto the highest
// common ancestor whose children all agree on it within delta. It returns
// the attribute a caller one level up should attribute to this subtree, or
// nil if no single value applies.
func compactAttribute(n *Node, dim *Dimension, delta float64, metrics *Metrics, log zerolog.Logger) *Attribute {
	if n.NumChildren() > 0 {
		var (
			minVal, maxVal float64
			haveAny        bool
			count          int
		)
		for i := 0; i < n.NumChildren(); i++ {
			child := n.children.At(i)
			attr := compactAttribute(child, dim, delta, metrics, log)
			if attr == nil {
				continue
			}
			v := attr.GetReal()
			if !haveAny || v < minVal {
				minVal = v
			}
			if !haveAny || v > maxVal {
				maxVal = v
			}
			haveAny = true
			count++
		}

		if haveAny && count == n.NumChildren() && (maxVal-minVal) < delta {
			val := (minVal + maxVal) / 2
			for i := 0; i < n.NumChildren(); i++ {
				child := n.children.At(i)
				child.attributes = deleteAttr(child.attributes, dim)
			}
			attr, err := newAttribute(dim, val)
			if err != nil {
				return nil
			}
			n.AddAttribute(attr)
			metrics.incAttributesCompacted()
			log.Debug().Str("dim", dim.Name).Float64("value", val).Msg("ght: compacted attribute onto ancestor")
			return attr
		}
		return nil
	}

	// Leaf: hand our own value for dim up to the caller, if we have one.
	return n.Attribute(dim)
}
