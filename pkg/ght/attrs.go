package ght

import "github.com/pramsey-labs/ght/internal/attribute"

// newAttribute packs a real value into a fresh Attribute for dim.
func newAttribute(dim *Dimension, real float64) (*Attribute, error) {
	return attribute.NewFromReal(dim, real)
}

func cloneAttrs(chain *Attribute) *Attribute {
	return attribute.Clone(chain)
}

func unionClone(a, b *Attribute) *Attribute {
	return attribute.Union(a, b)
}

func deleteAttr(chain *Attribute, dim *Dimension) *Attribute {
	return attribute.Delete(chain, dim)
}

func countAttrs(chain *Attribute) int {
	return attribute.Count(chain)
}
