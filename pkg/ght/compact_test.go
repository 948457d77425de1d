package ght

import "testing"

// TestCompactionScenario checks S5: eight rows share Intensity=5, and seven
// of eight share Z=123.4 (one has Z=123.3, just outside delta). After
// compaction, Intensity promotes to the root; Z does not, because its
// range at the root does not collapse within delta.
func TestCompactionScenario(t *testing.T) {
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 2, Name: "Intensity", Type: Uint16, Scale: 1, Offset: 0},
		{Position: 3, Name: "Z", Type: Float64, Scale: 0.01, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()

	var points []Point
	coords := []Coordinate{
		{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4},
		{X: 5, Y: 5}, {X: 6, Y: 6}, {X: 7, Y: 7}, {X: 8, Y: 8},
	}
	for i, c := range coords {
		z := 123.4
		if i == 7 {
			z = 123.3
		}
		points = append(points, Point{Coordinate: c, Values: map[string]float64{"Intensity": 5, "Z": z}})
	}

	tree, errs := BuildFromPoints(s, points, cfg)
	if errs != nil && len(errs.Errors) > 0 {
		t.Fatalf("BuildFromPoints: %v", errs)
	}

	tree.CompactAttributes()

	intensityDim, _ := s.DimensionByName("Intensity")
	zDim, _ := s.DimensionByName("Z")

	rootIntensity := tree.root.Attribute(intensityDim)
	if rootIntensity == nil {
		t.Fatal("root should carry a compacted Intensity attribute")
	}
	if got := rootIntensity.GetReal(); got != 5 {
		t.Errorf("root Intensity = %v, want 5", got)
	}

	if tree.root.Attribute(zDim) != nil {
		t.Error("root should not carry a compacted Z attribute (range exceeds delta)")
	}
}

// TestCompactionPromotesUniformChildValue checks invariant 7 directly: when
// every leaf beneath an interior node agrees on a dimension within delta,
// that node ends up carrying the value, within delta/2 of every leaf.
func TestCompactionPromotesUniformChildValue(t *testing.T) {
	s, err := NewSchema([]Dimension{
		{Position: 0, Name: "X", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 2, Name: "Classification", Type: Uint8, Scale: 1, Offset: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Metrics = NewMetrics()

	var points []Point
	for _, c := range []Coordinate{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}} {
		points = append(points, Point{Coordinate: c, Values: map[string]float64{"Classification": 2}})
	}

	tree, errs := BuildFromPoints(s, points, cfg)
	if errs != nil && len(errs.Errors) > 0 {
		t.Fatalf("BuildFromPoints: %v", errs)
	}
	tree.CompactAttributes()

	classDim, _ := s.DimensionByName("Classification")
	attr := tree.root.Attribute(classDim)
	if attr == nil {
		t.Fatal("root should carry the uniform Classification value")
	}
	if attr.GetReal() != 2 {
		t.Errorf("compacted Classification = %v, want 2", attr.GetReal())
	}
}
