package geohash

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncodeDecodeRoundTrip checks invariant 1: decode(encode(coord,r))
// contains coord, and the decoded area's dimensions are bounded by the
// resolution's bit budget.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	coords := []Coordinate{
		{X: 1.0, Y: 1.0},
		{X: -122.4194, Y: 37.7749},
		{X: 151.2093, Y: -33.8688},
		{X: 0, Y: 0},
		{X: 180, Y: 45},
		{X: -180, Y: -45},
	}

	for _, c := range coords {
		for r := 1; r <= MaxLength; r++ {
			hash, err := Encode(c, r)
			if err != nil {
				t.Fatalf("Encode(%v, %d): %v", c, r, err)
			}
			if len(hash) != r {
				t.Fatalf("Encode(%v, %d) = %q, want length %d", c, r, hash, r)
			}

			area, err := Decode(hash)
			if err != nil {
				t.Fatalf("Decode(%q): %v", hash, err)
			}
			if !area.Contains(c) {
				t.Fatalf("Decode(Encode(%v, %d)) = %v does not contain %v", c, r, area, c)
			}

			lonBits := (r*5 + 1) / 2
			latBits := (r * 5) / 2
			wantWidth := 360.0 / math.Pow(2, float64(lonBits))
			wantHeight := 180.0 / math.Pow(2, float64(latBits))
			if area.X.Width() > wantWidth+1e-9 {
				t.Errorf("r=%d width %g exceeds bound %g", r, area.X.Width(), wantWidth)
			}
			if area.Y.Width() > wantHeight+1e-9 {
				t.Errorf("r=%d height %g exceeds bound %g", r, area.Y.Width(), wantHeight)
			}
		}
	}
}

// TestEncodeOutOfRange checks the coordinate and resolution bounds checks.
func TestEncodeOutOfRange(t *testing.T) {
	_, err := Encode(Coordinate{X: 0, Y: 91}, 10)
	require.Error(t, err, "latitude 91 should be rejected")

	_, err = Encode(Coordinate{X: 181, Y: 0}, 10)
	require.Error(t, err, "longitude 181 should be rejected")

	_, err = Encode(Coordinate{X: 0, Y: 0}, 0)
	require.Error(t, err, "resolution 0 should be rejected")

	_, err = Encode(Coordinate{X: 0, Y: 0}, MaxLength+1)
	require.Error(t, err, "resolution beyond MaxLength should be rejected")
}

// TestDecodeInvalidCharacter checks that excluded letters (a, i, l, o) and
// non-alphanumerics are rejected.
func TestDecodeInvalidCharacter(t *testing.T) {
	for _, h := range []string{"a", "i", "l", "o", "!", " "} {
		_, err := Decode(h)
		require.Errorf(t, err, "Decode(%q) should have failed", h)
	}
}

// TestEncodeFixedScenarios pins the concrete encode values from S1 and S2,
// at the longest resolution Encode accepts (MaxLength).
func TestEncodeFixedScenarios(t *testing.T) {
	cases := []struct {
		coord Coordinate
		res   int
		want  string
	}{
		{Coordinate{X: 1.0, Y: 1.0}, MaxLength, "s00twy01mtw037ms06"},
		{Coordinate{X: 0, Y: 0}, MaxLength, "s00000000000000000"},
		{Coordinate{X: 90, Y: 0}, MaxLength, "w00000000000000000"},
		{Coordinate{X: 90, Y: 45}, MaxLength, "y00000000000000000"},
		{Coordinate{X: -180, Y: 45}, MaxLength, "b00000000000000000"},
		{Coordinate{X: 180, Y: 45}, MaxLength, "zbpbpbpbpbpbpbpbpb"},
	}

	for _, c := range cases {
		got, err := Encode(c.coord, c.res)
		require.NoError(t, err)
		require.Equalf(t, c.want, got, "Encode(%v, %d)", c.coord, c.res)
	}
}

// TestEncodeFixedCenter checks that the fixed-hash decode center is close
// to the input coordinate (S1: within 1e-10).
func TestEncodeFixedCenter(t *testing.T) {
	hash, err := Encode(Coordinate{X: 1.0, Y: 1.0}, MaxLength)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	area, err := Decode(hash)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	center := area.Center()
	if math.Abs(center.X-1.0) > 1e-10 || math.Abs(center.Y-1.0) > 1e-10 {
		t.Errorf("center %v too far from (1.0, 1.0)", center)
	}
}

func TestCommonPrefixLength(t *testing.T) {
	cases := []struct {
		a, b string
		max  int
		want int
	}{
		{"c0v2hdm1wpzpy4vtv4", "c0v2hdm1gcuekpf9y1", 18, 8},
		{"", "abc", 18, 0},
		{"abc", "", 18, 0},
		{"abc", "xyz", 18, -1},
		{"abcde", "abcxy", 3, 3},
	}
	for _, c := range cases {
		got := CommonPrefixLength(c.a, c.b, c.max)
		if got != c.want {
			t.Errorf("CommonPrefixLength(%q, %q, %d) = %d, want %d", c.a, c.b, c.max, got, c.want)
		}
	}
}

func TestLeafParts(t *testing.T) {
	cases := []struct {
		a, b     string
		max      int
		wantKind MatchKind
	}{
		{"", "wpzpy4vtv4", 18, MatchGlobal},
		{"wpzpy4vtv4", "wpzpy4vtv4", 18, MatchSame},
		{"wpz", "wpzpy4vtv4", 18, MatchChild},
		{"c0v2hdm1wpzpy4vtv4", "c0v2hdm1gcuekpf9y1", 18, MatchSplit},
		{"wpz", "gcu", 18, MatchNone},
	}
	for _, c := range cases {
		kind, _, _ := LeafParts(c.a, c.b, c.max)
		if kind != c.wantKind {
			t.Errorf("LeafParts(%q, %q, %d) kind = %s, want %s", c.a, c.b, c.max, kind, c.wantKind)
		}
	}
}
