package ght

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pramsey-labs/ght/internal/iostream"
)

func buildSerializeTestTree(t *testing.T) (*Tree, *Schema) {
	t.Helper()
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 2, Name: "Intensity", Type: Uint16, Scale: 1, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()

	points := []Point{
		{Coordinate: Coordinate{X: 1, Y: 1}, Values: map[string]float64{"Intensity": 5}},
		{Coordinate: Coordinate{X: 2, Y: 2}, Values: map[string]float64{"Intensity": 88}},
	}
	tree, errs := BuildFromPoints(s, points, cfg)
	if errs != nil && len(errs.Errors) > 0 {
		t.Fatalf("BuildFromPoints: %v", errs)
	}
	return tree, s
}

// TestSerializeRoundTrip checks invariant 4: reading back a written tree
// reproduces the same node graph, hashes, and attribute chains.
func TestSerializeRoundTrip(t *testing.T) {
	tree, s := buildSerializeTestTree(t)

	data, err := tree.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()
	got, err := TreeFromBytes(data, s, cfg)
	if err != nil {
		t.Fatalf("TreeFromBytes: %v", err)
	}

	wantList := tree.ToNodeList()
	gotList := got.ToNodeList()
	if len(gotList) != len(wantList) {
		t.Fatalf("round-tripped tree has %d leaves, want %d", len(gotList), len(wantList))
	}

	intensityDim, _ := s.DimensionByName("Intensity")
	wantValues := map[string]float64{}
	for _, n := range wantList {
		h, _ := n.Hash()
		if a := n.Attribute(intensityDim); a != nil {
			wantValues[h] = a.GetReal()
		}
	}
	for _, n := range gotList {
		h, _ := n.Hash()
		a := n.Attribute(intensityDim)
		if a == nil {
			t.Errorf("round-tripped leaf %q lost its Intensity attribute", h)
			continue
		}
		want, ok := wantValues[h]
		if !ok {
			t.Errorf("round-tripped leaf %q hash not present in original tree", h)
			continue
		}
		if a.GetReal() != want {
			t.Errorf("leaf %q Intensity = %v, want %v", h, a.GetReal(), want)
		}
	}
}

func TestSerializeVersionMismatch(t *testing.T) {
	tree, s := buildSerializeTestTree(t)

	data, err := tree.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	// Corrupt the format_version byte (header[1]).
	data[1] = 99

	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()
	if _, err := TreeFromBytes(data, s, cfg); err == nil {
		t.Error("TreeFromBytes should reject an unknown format version")
	}
}

// TestSerializeNodeFixedBytePattern checks S6: a hand-built node with hash
// "c0v2hdm1" and two children — "wpzpy4vtv4" (a bare leaf) and
// "ctd4ccx9yb" (carrying one packed attribute, dim 3 = 88) — serializes
// to the documented wire bytes.
func TestSerializeNodeFixedBytePattern(t *testing.T) {
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 2, Name: "Z", Type: Float64, Scale: 0.01, Offset: 0},
		{Position: 3, Name: "Intensity", Type: Uint16, Scale: 1, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	intensityDim, err := s.Dimension(3)
	if err != nil {
		t.Fatalf("Dimension(3): %v", err)
	}

	root := NewNodeFromHash("c0v2hdm1")
	child1 := NewNodeFromHash("wpzpy4vtv4")
	child2 := NewNodeFromHash("ctd4ccx9yb")
	attr, err := newAttribute(intensityDim, 88)
	if err != nil {
		t.Fatalf("newAttribute: %v", err)
	}
	child2.AddAttribute(attr)
	root.addChild(child1)
	root.addChild(child2)

	w := iostream.NewMemWriter(zerolog.Nop())
	if err := writeNode(w, root); err != nil {
		t.Fatalf("writeNode: %v", err)
	}
	got, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	want := []byte{
		0x08, 0x63, 0x30, 0x76, 0x32, 0x68, 0x64, 0x6D, 0x31, // hash_length=8, "c0v2hdm1"
		0x00, // attr_count=0
		0x02, // child_count=2
		0x0A, 0x77, 0x70, 0x7A, 0x70, 0x79, 0x34, 0x76, 0x74, 0x76, 0x34, // child1 hash "wpzpy4vtv4"
		0x00, // child1 attr_count=0
		0x00, // child1 child_count=0
		0x0A, 0x63, 0x74, 0x64, 0x34, 0x63, 0x63, 0x78, 0x39, 0x79, 0x62, // child2 hash "ctd4ccx9yb"
		0x01,             // child2 attr_count=1
		0x03, 0x58, 0x00, // dim_position=3, raw=0x0058 (88, little-endian u16)
	}
	if !bytes.HasPrefix(got, want) {
		t.Fatalf("writeNode bytes = % X, want prefix % X", got, want)
	}
}

// TestSerializeRoundTripPreservesPointCount checks that NumNodes after a
// read-back round trip counts inserted points, not every interior node a
// SPLIT produced along the way (S3: two points split the root into one
// interior node plus two leaves, so NumNodes must read back as 2, not 3).
func TestSerializeRoundTripPreservesPointCount(t *testing.T) {
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()

	list := []*Node{
		NewNodeFromHash("c0v2hdm1wpzpy4vtv4"),
		NewNodeFromHash("c0v2hdm1gcuekpf9y1"),
	}
	tree, err := FromNodeList(s, list, cfg)
	if err != nil {
		t.Fatalf("FromNodeList: %v", err)
	}
	if tree.NumNodes() != 2 {
		t.Fatalf("NumNodes() before round trip = %d, want 2", tree.NumNodes())
	}

	data, err := tree.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := TreeFromBytes(data, s, cfg)
	if err != nil {
		t.Fatalf("TreeFromBytes: %v", err)
	}
	if got.NumNodes() != 2 {
		t.Errorf("NumNodes() after round trip = %d, want 2 (the split produced one extra interior node)", got.NumNodes())
	}
}

func TestSerializeEmptyTree(t *testing.T) {
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	cfg := DefaultConfig()
	tree, err := NewTree(s, cfg)
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	data, err := tree.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := TreeFromBytes(data, s, cfg); err != nil {
		t.Fatalf("TreeFromBytes on an empty tree: %v", err)
	}
}
