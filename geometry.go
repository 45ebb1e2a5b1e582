package umbra

import (
	"fmt"
	"math"

	"github.com/rclancey/earcut"
)

// degenerateAreaEpsilon is the minimum absolute polygon area accepted by the
// decomposer. Anything below is treated as collinear/zero-area input.
const degenerateAreaEpsilon = 1e-9

// signedArea returns the shoelace area of the polygon. Positive for
// counter-clockwise winding (as defined by this package), negative for
// clockwise.
func signedArea(points []Vec2) float64 {
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// windingOf returns the winding of the polygon based on its signed area.
func windingOf(points []Vec2) Winding {
	if signedArea(points) >= 0 {
		return WindingCounterClockwise
	}
	return WindingClockwise
}

// NormalizeWinding returns a copy of points, reversed if source and target
// windings differ. The input slice is never mutated.
func NormalizeWinding(points []Vec2, source, target Winding) []Vec2 {
	out := make([]Vec2, len(points))
	if source == target {
		copy(out, points)
		return out
	}
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// IsConvex reports whether the polygon is convex, checking for a consistent
// turn direction at every vertex given the stated winding. Collinear runs are
// tolerated. The result is meaningless for self-intersecting polygons.
func IsConvex(points []Vec2, winding Winding) bool {
	if len(points) < 3 {
		return false
	}
	n := len(points)
	for i := 0; i < n; i++ {
		e1 := points[(i+1)%n].Sub(points[i])
		e2 := points[(i+2)%n].Sub(points[(i+1)%n])
		cross := e1.Cross(e2)
		if winding == WindingCounterClockwise && cross < 0 {
			return false
		}
		if winding == WindingClockwise && cross > 0 {
			return false
		}
	}
	return true
}

// DecomposeIntoConvex splits a simple polygon into a minimal set of convex
// sub-polygons. Already-convex input passes through as a single part. Concave
// input is ear-clipped into triangles which are then greedily merged back into
// convex cells. Every returned part is independently convex, has at least 3
// vertices, and uses the target winding.
//
// The decomposition is deterministic: the same input always yields the same
// part count and point ordering.
//
// Returns an error wrapping ErrInvalidGeometry if fewer than 3 points are
// given or the polygon is degenerate (zero area).
func DecomposeIntoConvex(points []Vec2, source, target Winding) ([][]Vec2, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: %d points (need at least 3)", ErrInvalidGeometry, len(points))
	}

	// Work in counter-clockwise order regardless of declared winding.
	pts := NormalizeWinding(points, source, WindingCounterClockwise)
	if windingOf(pts) != WindingCounterClockwise {
		// Declared winding didn't match the actual vertex order; fix it so the
		// convexity tests below see consistent geometry.
		pts = NormalizeWinding(pts, WindingClockwise, WindingCounterClockwise)
	}
	if math.Abs(signedArea(pts)) < degenerateAreaEpsilon {
		return nil, fmt.Errorf("%w: polygon has zero area", ErrInvalidGeometry)
	}

	if IsConvex(pts, WindingCounterClockwise) {
		return [][]Vec2{NormalizeWinding(pts, WindingCounterClockwise, target)}, nil
	}

	loops, err := triangulateLoops(pts)
	if err != nil {
		return nil, err
	}
	loops = mergeConvexLoops(loops, pts)

	parts := make([][]Vec2, len(loops))
	for i, loop := range loops {
		part := make([]Vec2, len(loop))
		for j, idx := range loop {
			part[j] = pts[idx]
		}
		parts[i] = NormalizeWinding(part, WindingCounterClockwise, target)
	}
	return parts, nil
}

// triangulateLoops ear-clips a counter-clockwise polygon into triangles,
// returned as counter-clockwise index loops into pts.
func triangulateLoops(pts []Vec2) ([][]int, error) {
	coords := make([]float64, len(pts)*2)
	for i, p := range pts {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}
	indices, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return nil, fmt.Errorf("%w: triangulation failed: %v", ErrInvalidGeometry, err)
	}
	if len(indices) < 3 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: triangulation produced %d indices", ErrInvalidGeometry, len(indices))
	}

	loops := make([][]int, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tri := []int{indices[i], indices[i+1], indices[i+2]}
		// Orient each triangle counter-clockwise so edge matching during the
		// merge pass can rely on opposing edge directions.
		if signedArea([]Vec2{pts[tri[0]], pts[tri[1]], pts[tri[2]]}) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		loops = append(loops, tri)
	}
	return loops, nil
}

// mergeConvexLoops greedily merges adjacent index loops while the union stays
// convex (Hertel-Mehlhorn style). Loops are scanned in order and the first
// admissible merge is taken, so the result is deterministic.
func mergeConvexLoops(loops [][]int, pts []Vec2) [][]int {
	for {
		merged := false
	scan:
		for i := 0; i < len(loops); i++ {
			for j := i + 1; j < len(loops); j++ {
				ai, bi, ok := sharedEdge(loops[i], loops[j])
				if !ok {
					continue
				}
				candidate := mergeLoops(loops[i], loops[j], ai, bi)
				if !isConvexLoop(candidate, pts) {
					continue
				}
				loops[i] = candidate
				loops = append(loops[:j], loops[j+1:]...)
				merged = true
				break scan
			}
		}
		if !merged {
			return loops
		}
	}
}

// sharedEdge finds an edge a[ai]->a[ai+1] whose reverse appears in b as
// b[bi]->b[bi+1]. Both loops must be counter-clockwise, so a shared edge is
// always traversed in opposite directions.
func sharedEdge(a, b []int) (ai, bi int, ok bool) {
	for i := range a {
		u := a[i]
		v := a[(i+1)%len(a)]
		for j := range b {
			if b[j] == v && b[(j+1)%len(b)] == u {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// mergeLoops joins two loops across the shared edge a[ai]->a[ai+1] (which is
// b[bi+1]<-b[bi] in the other loop), dropping the diagonal. The result walks
// all of a starting at the far end of the shared edge, then b's interior
// vertices.
func mergeLoops(a, b []int, ai, bi int) []int {
	la, lb := len(a), len(b)
	out := make([]int, 0, la+lb-2)
	for k := 0; k < la; k++ {
		out = append(out, a[(ai+1+k)%la])
	}
	for k := 0; k < lb-2; k++ {
		out = append(out, b[(bi+2+k)%lb])
	}
	return out
}

// isConvexLoop reports whether the index loop is convex when materialized
// against pts. Loops are counter-clockwise by construction.
func isConvexLoop(loop []int, pts []Vec2) bool {
	n := len(loop)
	for i := 0; i < n; i++ {
		p0 := pts[loop[i]]
		p1 := pts[loop[(i+1)%n]]
		p2 := pts[loop[(i+2)%n]]
		if p1.Sub(p0).Cross(p2.Sub(p1)) < 0 {
			return false
		}
	}
	return true
}

// pointInConvex reports whether p lies inside (or on the boundary of) a
// convex polygon. The polygon winding does not matter: the test requires a
// consistent cross-product sign against every edge.
func pointInConvex(p Vec2, poly []Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		edge := poly[(i+1)%n].Sub(poly[i])
		toP := p.Sub(poly[i])
		cross := edge.Cross(toP)
		if cross == 0 {
			continue // on the edge line; boundary counts as inside
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if sign != s {
			return false
		}
	}
	return true
}

// polygonCentroid returns the area-weighted centroid of a simple polygon.
// Falls back to the vertex average for (near) zero-area input.
func polygonCentroid(points []Vec2) Vec2 {
	var cx, cy, area float64
	n := len(points)
	for i := 0; i < n; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		cross := p0.Cross(p1)
		cx += (p0.X + p1.X) * cross
		cy += (p0.Y + p1.Y) * cross
		area += cross
	}
	area /= 2
	if math.Abs(area) < degenerateAreaEpsilon {
		var sum Vec2
		for _, p := range points {
			sum = sum.Add(p)
		}
		return sum.Scale(1 / float64(n))
	}
	return Vec2{cx / (6 * area), cy / (6 * area)}
}

// boundingRadiusAbout returns the maximum distance from center to any vertex.
func boundingRadiusAbout(center Vec2, points []Vec2) float64 {
	var maxSq float64
	for _, p := range points {
		d := p.Sub(center)
		if sq := d.Dot(d); sq > maxSq {
			maxSq = sq
		}
	}
	return math.Sqrt(maxSq)
}
