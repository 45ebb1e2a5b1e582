package umbra

import (
	"fmt"
	"math"
)

// HullPart is one convex polygon belonging to a Hull. Part points live in
// hull-local space with counter-clockwise winding; the owning hull's world
// transform positions them each frame.
type HullPart struct {
	hull     *Hull
	points   []Vec2
	centroid Vec2

	enabled bool

	// Cached world-space bounding radius, invalidated when the hull's scale
	// changes. The staleness flag is the part's own, distinct from the hull's
	// transform flag.
	radius      float64
	radiusDirty bool
}

// newHullPart wraps a convex counter-clockwise point loop.
func newHullPart(h *Hull, points []Vec2) *HullPart {
	return &HullPart{
		hull:        h,
		points:      points,
		centroid:    polygonCentroid(points),
		enabled:     true,
		radiusDirty: true,
	}
}

// Hull returns the owning hull.
func (p *HullPart) Hull() *Hull { return p.hull }

// Points returns the part's convex polygon in hull-local space.
// The returned slice MUST NOT be mutated.
func (p *HullPart) Points() []Vec2 { return p.points }

// Centroid returns the part's area centroid in hull-local space.
func (p *HullPart) Centroid() Vec2 { return p.centroid }

// Enabled reports whether the part participates in shadow casting.
// Mirrors the owning hull's enabled state.
func (p *HullPart) Enabled() bool { return p.enabled }

// BoundingRadius returns the part's world-space bounding radius: the maximum
// vertex distance from the centroid, scaled by the hull's largest scale axis.
// Recomputed lazily only after a scale change.
func (p *HullPart) BoundingRadius() float64 {
	if p.radiusDirty {
		s := math.Max(math.Abs(p.hull.scale.X), math.Abs(p.hull.scale.Y))
		p.radius = boundingRadiusAbout(p.centroid, p.points) * s
		p.radiusDirty = false
	}
	return p.radius
}

// hullListener is one OnChange subscription.
type hullListener struct {
	id int
	fn func(*Hull)
}

// Hull is an opaque shadow-casting occluder: a possibly non-convex polygon
// decomposed once at construction into convex parts. After construction only
// rigid transform parameters change; the decomposition is never recomputed.
type Hull struct {
	points []Vec2
	parts  []*HullPart

	position Vec2
	origin   Vec2
	scale    Vec2
	rotation float64
	enabled  bool

	flags      HullFlags
	world      [6]float64
	worldDirty bool

	listeners  []hullListener
	nextListID int
}

// NewHull creates a hull from a simple polygon boundary with the declared
// winding. The boundary is decomposed into convex parts exactly once; errors
// from the decomposer (fewer than 3 points, degenerate geometry) propagate
// and no hull is created.
func NewHull(points []Vec2, winding Winding) (*Hull, error) {
	parts, err := DecomposeIntoConvex(points, winding, WindingCounterClockwise)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		panic("umbra: decomposition produced zero parts")
	}

	h := &Hull{
		points:     append([]Vec2(nil), points...),
		scale:      Vec2{1, 1},
		enabled:    true,
		flags:      HullFlagAll,
		worldDirty: true,
	}
	h.parts = make([]*HullPart, len(parts))
	for i, part := range parts {
		h.parts[i] = newHullPart(h, part)
	}
	return h, nil
}

// MustNewHull is NewHull but panics on invalid geometry. Convenient for
// hulls built from literals.
func MustNewHull(points []Vec2, winding Winding) *Hull {
	h, err := NewHull(points, winding)
	if err != nil {
		panic(fmt.Sprintf("umbra: %v", err))
	}
	return h
}

// Points returns the original boundary points.
// The returned slice MUST NOT be mutated.
func (h *Hull) Points() []Vec2 { return h.points }

// Parts returns the hull's convex parts.
// The returned slice MUST NOT be mutated.
func (h *Hull) Parts() []*HullPart { return h.parts }

// Flags returns the dirty-flag bitmask accumulated since the engine last
// cleared it.
func (h *Hull) Flags() HullFlags { return h.flags }

// Position returns the hull's world position.
func (h *Hull) Position() Vec2 { return h.position }

// Origin returns the hull's local pivot point.
func (h *Hull) Origin() Vec2 { return h.origin }

// Rotation returns the hull's rotation in radians.
func (h *Hull) Rotation() float64 { return h.rotation }

// Scale returns the hull's per-axis scale factors.
func (h *Hull) Scale() Vec2 { return h.scale }

// Enabled reports whether the hull casts shadows.
func (h *Hull) Enabled() bool { return h.enabled }

// SetPosition moves the hull. Writing the current value is a no-op: the dirty
// mask and cached transform are untouched.
func (h *Hull) SetPosition(p Vec2) {
	if p == h.position {
		return
	}
	h.position = p
	h.flags.Set(HullFlagPosition)
	h.invalidateTransform()
}

// SetOrigin sets the hull's local pivot. Same-value writes are no-ops.
func (h *Hull) SetOrigin(o Vec2) {
	if o == h.origin {
		return
	}
	h.origin = o
	h.flags.Set(HullFlagOrigin)
	h.invalidateTransform()
}

// SetRotation sets the hull's rotation in radians. Same-value writes are no-ops.
func (h *Hull) SetRotation(r float64) {
	if r == h.rotation {
		return
	}
	h.rotation = r
	h.flags.Set(HullFlagRotation)
	h.invalidateTransform()
}

// SetScale sets the hull's per-axis scale. A changing write additionally
// invalidates every part's cached bounding radius. Same-value writes are no-ops.
func (h *Hull) SetScale(s Vec2) {
	if s == h.scale {
		return
	}
	h.scale = s
	h.flags.Set(HullFlagScale)
	for _, part := range h.parts {
		part.radiusDirty = true
	}
	h.invalidateTransform()
}

// SetEnabled toggles shadow casting, propagating the new state to every part.
// Same-value writes are no-ops.
func (h *Hull) SetEnabled(enabled bool) {
	if enabled == h.enabled {
		return
	}
	h.enabled = enabled
	for _, part := range h.parts {
		part.enabled = enabled
	}
	h.flags.Set(HullFlagEnabled)
}

// WorldTransform returns the hull's cached world matrix, recomputing it only
// if a transform-affecting property changed since the last call. The matrix
// composes Scale -> Rotate -> Translate(position - origin), so transform math
// runs at most once per frame per hull no matter how many lights query it.
func (h *Hull) WorldTransform() [6]float64 {
	if h.worldDirty {
		h.world = composeWorldTransform(h.position, h.origin, h.scale, h.rotation)
		h.worldDirty = false
	}
	return h.world
}

// OnChange subscribes to transform-affecting mutations (position, origin,
// rotation, scale). The returned function unsubscribes. Index-maintaining
// collaborators use this to invalidate spatial structures.
func (h *Hull) OnChange(fn func(*Hull)) (unsubscribe func()) {
	id := h.nextListID
	h.nextListID++
	h.listeners = append(h.listeners, hullListener{id: id, fn: fn})
	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// invalidateTransform marks the world matrix stale and notifies listeners.
func (h *Hull) invalidateTransform() {
	h.worldDirty = true
	for _, l := range h.listeners {
		l.fn(h)
	}
}

// clearDirty resets the dirty mask. Called by the engine at the end of each
// frame in which the hull was visited.
func (h *Hull) clearDirty() {
	h.flags.Clear()
}
