package ght

import "github.com/gammazero/deque"

// walkItem pairs a node with the concatenated hash of every ancestor down
// to (but not including) it, so a visitor can report each node's full hash
// without the caller having to thread that state itself.
type walkItem struct {
	node         *Node
	ancestorHash string
}

// Walk traverses the tree breadth-first, calling visit once per node with
// the node's full ancestor-prefixed hash. visit returns false to stop the
// traversal early (children of that node, and everything still queued
// after it, are skipped).
func (t *Tree) Walk(visit func(hash string, n *Node) bool) {
	if t.root == nil {
		return
	}

	q := deque.New()
	q.PushBack(walkItem{node: t.root})

	for q.Len() > 0 {
		item := q.PopFront().(walkItem)

		hash := item.ancestorHash
		if h, ok := item.node.Hash(); ok {
			hash += h
		}

		if !visit(hash, item.node) {
			return
		}

		for i := 0; i < item.node.NumChildren(); i++ {
			q.PushBack(walkItem{node: item.node.children.At(i), ancestorHash: hash})
		}
	}
}
