// Package ght implements a compressed, lossy-or-lossless on-disk container
// for massive 2D+attributes point clouds built around a geohash-prefix
// trie: each point's (x,y) collapses to a base-32 geohash, and points that
// share a geohash prefix share the interior node labeled with that prefix.
// Additional per-point attributes hang off leaf nodes and are promoted
// ("compacted") onto common ancestors when every descendant agrees on a
// value within a small tolerance.
//
// A Tree is built by inserting one full-length-hash Node per point, then
// compacted and serialized to a byte stream (in memory or to a file). The
// schema describing a tree's attribute dimensions is supplied by the
// caller — this package does not parse or emit schema documents.
package ght
