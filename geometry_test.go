package umbra

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// ccwTriangle has signed area +50.
var ccwTriangle = []Vec2{{0, 0}, {10, 0}, {5, 10}}

// lShape is a concave hexagon (an L) with area 300.
var lShape = []Vec2{{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 20}, {0, 20}}

// eightStar is a concave 8-point star.
var eightStar = []Vec2{
	{0, -50}, {14, -14}, {50, 0}, {14, 14},
	{0, 50}, {-14, 14}, {-50, 0}, {-14, -14},
}

func reversed(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// --- signedArea / windingOf ---

func TestSignedAreaCCW(t *testing.T) {
	assertNear(t, "area", signedArea(ccwTriangle), 50)
}

func TestSignedAreaCW(t *testing.T) {
	assertNear(t, "area", signedArea(reversed(ccwTriangle)), -50)
}

func TestWindingOf(t *testing.T) {
	if got := windingOf(ccwTriangle); got != WindingCounterClockwise {
		t.Errorf("windingOf(ccw) = %v, want counter-clockwise", got)
	}
	if got := windingOf(reversed(ccwTriangle)); got != WindingClockwise {
		t.Errorf("windingOf(cw) = %v, want clockwise", got)
	}
}

// --- NormalizeWinding ---

func TestNormalizeWindingSame(t *testing.T) {
	got := NormalizeWinding(ccwTriangle, WindingCounterClockwise, WindingCounterClockwise)
	for i := range got {
		assertVec(t, "point", got[i], ccwTriangle[i])
	}
}

func TestNormalizeWindingReverses(t *testing.T) {
	got := NormalizeWinding(ccwTriangle, WindingCounterClockwise, WindingClockwise)
	assertNear(t, "area", signedArea(got), -50)
}

func TestNormalizeWindingCopies(t *testing.T) {
	in := append([]Vec2(nil), ccwTriangle...)
	got := NormalizeWinding(in, WindingCounterClockwise, WindingCounterClockwise)
	got[0] = Vec2{999, 999}
	assertVec(t, "input untouched", in[0], ccwTriangle[0])
}

// --- IsConvex ---

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name    string
		points  []Vec2
		winding Winding
		want    bool
	}{
		{"triangle ccw", ccwTriangle, WindingCounterClockwise, true},
		{"triangle cw", reversed(ccwTriangle), WindingClockwise, true},
		{"triangle wrong winding", ccwTriangle, WindingClockwise, false},
		{"square", []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, WindingCounterClockwise, true},
		{"square with collinear point", []Vec2{{0, 0}, {5, 0}, {10, 0}, {10, 10}, {0, 10}}, WindingCounterClockwise, true},
		{"l-shape", lShape, WindingCounterClockwise, false},
		{"star", eightStar, WindingCounterClockwise, false},
		{"too few points", []Vec2{{0, 0}, {1, 1}}, WindingCounterClockwise, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConvex(tt.points, tt.winding); got != tt.want {
				t.Errorf("IsConvex = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- DecomposeIntoConvex ---

func TestDecomposeConvexPassthrough(t *testing.T) {
	parts, err := DecomposeIntoConvex(ccwTriangle, WindingCounterClockwise, WindingCounterClockwise)
	if err != nil {
		t.Fatalf("DecomposeIntoConvex: %v", err)
	}
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
	if len(parts[0]) != 3 {
		t.Errorf("part has %d points, want 3", len(parts[0]))
	}
}

func TestDecomposeConcave(t *testing.T) {
	for _, tt := range []struct {
		name   string
		points []Vec2
	}{
		{"l-shape", lShape},
		{"star", eightStar},
	} {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := DecomposeIntoConvex(tt.points, WindingCounterClockwise, WindingCounterClockwise)
			if err != nil {
				t.Fatalf("DecomposeIntoConvex: %v", err)
			}
			if len(parts) < 2 {
				t.Fatalf("concave input produced %d parts, want >= 2", len(parts))
			}
			var total float64
			for i, part := range parts {
				if len(part) < 3 {
					t.Errorf("part %d has %d points", i, len(part))
				}
				if !IsConvex(part, WindingCounterClockwise) {
					t.Errorf("part %d is not convex: %v", i, part)
				}
				total += signedArea(part)
			}
			// Parts partition the input: areas sum back to the original.
			if want := signedArea(tt.points); !scalar.EqualWithinAbs(total, want, 1e-6) {
				t.Errorf("part areas sum to %v, want %v", total, want)
			}
		})
	}
}

func TestDecomposeHonorsTargetWinding(t *testing.T) {
	parts, err := DecomposeIntoConvex(lShape, WindingCounterClockwise, WindingClockwise)
	if err != nil {
		t.Fatalf("DecomposeIntoConvex: %v", err)
	}
	for i, part := range parts {
		if signedArea(part) >= 0 {
			t.Errorf("part %d is not clockwise", i)
		}
	}
}

func TestDecomposeFixesMisdeclaredWinding(t *testing.T) {
	// Clockwise points declared as counter-clockwise still decompose; the
	// actual vertex order wins.
	parts, err := DecomposeIntoConvex(reversed(lShape), WindingCounterClockwise, WindingCounterClockwise)
	if err != nil {
		t.Fatalf("DecomposeIntoConvex: %v", err)
	}
	for i, part := range parts {
		if !IsConvex(part, WindingCounterClockwise) {
			t.Errorf("part %d is not convex ccw", i)
		}
	}
}

func TestDecomposeDeterministic(t *testing.T) {
	first, err := DecomposeIntoConvex(eightStar, WindingCounterClockwise, WindingCounterClockwise)
	if err != nil {
		t.Fatalf("DecomposeIntoConvex: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := DecomposeIntoConvex(eightStar, WindingCounterClockwise, WindingCounterClockwise)
		if err != nil {
			t.Fatalf("DecomposeIntoConvex: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d parts, first run had %d", run, len(again), len(first))
		}
		for i := range again {
			if len(again[i]) != len(first[i]) {
				t.Fatalf("run %d part %d: %d points, first run had %d", run, i, len(again[i]), len(first[i]))
			}
			for j := range again[i] {
				if again[i][j] != first[i][j] {
					t.Fatalf("run %d part %d point %d differs", run, i, j)
				}
			}
		}
	}
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []Vec2
	}{
		{"empty", nil},
		{"two points", []Vec2{{0, 0}, {1, 0}}},
		{"collinear", []Vec2{{0, 0}, {5, 0}, {10, 0}}},
		{"repeated point", []Vec2{{3, 3}, {3, 3}, {3, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecomposeIntoConvex(tt.points, WindingCounterClockwise, WindingCounterClockwise)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("err = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

// --- pointInConvex ---

func TestPointInConvex(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		name string
		p    Vec2
		want bool
	}{
		{"center", Vec2{5, 5}, true},
		{"on edge", Vec2{10, 5}, true},
		{"on vertex", Vec2{0, 0}, true},
		{"outside right", Vec2{10.01, 5}, false},
		{"outside diagonal", Vec2{-1, -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pointInConvex(tt.p, square); got != tt.want {
				t.Errorf("pointInConvex(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	// Winding must not matter.
	if !pointInConvex(Vec2{5, 5}, reversed(square)) {
		t.Error("pointInConvex failed on clockwise polygon")
	}
}

// --- polygonCentroid / boundingRadiusAbout ---

func TestPolygonCentroidSquare(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assertVec(t, "centroid", polygonCentroid(square), Vec2{5, 5})
}

func TestPolygonCentroidDegenerateFallsBack(t *testing.T) {
	line := []Vec2{{0, 0}, {10, 0}, {20, 0}}
	assertVec(t, "centroid", polygonCentroid(line), Vec2{10, 0})
}

func TestBoundingRadiusAbout(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assertNear(t, "radius", boundingRadiusAbout(Vec2{5, 5}, square), math.Sqrt(50))
}
