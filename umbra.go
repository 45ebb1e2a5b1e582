package umbra

import (
	"errors"
	"math"
)

// ErrInvalidGeometry is returned when a polygon cannot be decomposed: fewer
// than 3 points, or degenerate (zero-area) input.
var ErrInvalidGeometry = errors.New("umbra: invalid geometry")

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the neutral color (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// Opaque returns the color with its alpha forced to 1. Ambient colors are
// always opaque so unlit areas never punch holes in the lightmap.
func (c Color) Opaque() Color {
	c.A = 1
	return c
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the vector's magnitude.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector in v's direction, or the zero vector if
// v has zero length.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Cross returns the 2D cross product (z component of the 3D cross).
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Dot returns the dot product.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersect returns the overlapping region of r and other. The result has
// zero width or height if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Winding identifies the vertex order of a polygon boundary.
type Winding uint8

const (
	// WindingCounterClockwise orders vertices so the signed area is positive.
	WindingCounterClockwise Winding = iota
	// WindingClockwise orders vertices so the signed area is negative.
	WindingClockwise
)

// HullFlags is a bitmask recording which Hull attributes changed since the
// engine last consumed the hull's geometry.
type HullFlags uint8

const (
	HullFlagEnabled  HullFlags = 1 << iota // Enabled toggled
	HullFlagPosition                       // Position changed
	HullFlagRotation                       // Rotation changed
	HullFlagScale                          // Scale changed
	HullFlagOrigin                         // Origin changed
)

// HullFlagAll marks every attribute dirty. New hulls start in this state.
const HullFlagAll = HullFlagEnabled | HullFlagPosition | HullFlagRotation | HullFlagScale | HullFlagOrigin

// Set ORs the given flag bits into the mask.
func (f *HullFlags) Set(flag HullFlags) { *f |= flag }

// Clear resets the mask to zero. Called by the engine after a frame's
// geometry has been consumed.
func (f *HullFlags) Clear() { *f = 0 }

// Any reports whether any bit of mask is set.
func (f HullFlags) Any(mask HullFlags) bool { return f&mask != 0 }

// LightFlags is a bitmask recording which Light attributes changed since the
// engine last processed the light.
type LightFlags uint16

const (
	LightFlagEnabled      LightFlags = 1 << iota // Enabled toggled
	LightFlagPosition                            // Position changed
	LightFlagRange                               // Range changed
	LightFlagRadius                              // Radius changed
	LightFlagColor                               // Color changed
	LightFlagIntensity                           // Intensity changed
	LightFlagCastsShadows                        // CastsShadows toggled
	LightFlagShadowType                          // ShadowType changed
)

// LightFlagAll marks every attribute dirty. New lights start in this state.
const LightFlagAll = LightFlagEnabled | LightFlagPosition | LightFlagRange |
	LightFlagRadius | LightFlagColor | LightFlagIntensity |
	LightFlagCastsShadows | LightFlagShadowType

// Set ORs the given flag bits into the mask.
func (f *LightFlags) Set(flag LightFlags) { *f |= flag }

// Clear resets the mask to zero.
func (f *LightFlags) Clear() { *f = 0 }

// Any reports whether any bit of mask is set.
func (f LightFlags) Any(mask LightFlags) bool { return f&mask != 0 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
