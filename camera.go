package umbra

import "math"

// Camera is the default View implementation: position, zoom, rotation, and a
// screen-space viewport. The view matrix is cached and recomputed only after
// a mutation, the same lazy discipline hulls use for their world transforms.
type Camera struct {
	x, y     float64
	zoom     float64
	rotation float64
	viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool
}

// NewCamera creates a camera centered at the origin with zoom 1 rendering
// into the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		zoom:     1,
		viewport: viewport,
		dirty:    true,
	}
}

// Position returns the world-space point the camera centers on.
func (c *Camera) Position() Vec2 { return Vec2{c.x, c.y} }

// Zoom returns the scale factor (1 = no zoom, >1 = zoom in).
func (c *Camera) Zoom() float64 { return c.zoom }

// Rotation returns the camera rotation in radians.
func (c *Camera) Rotation() float64 { return c.rotation }

// Viewport returns the screen-space rectangle the camera renders into.
func (c *Camera) Viewport() Rect { return c.viewport }

// SetPosition centers the camera on the given world point.
func (c *Camera) SetPosition(p Vec2) {
	if p.X == c.x && p.Y == c.y {
		return
	}
	c.x, c.y = p.X, p.Y
	c.dirty = true
}

// SetZoom sets the scale factor.
func (c *Camera) SetZoom(z float64) {
	if z == c.zoom {
		return
	}
	c.zoom = z
	c.dirty = true
}

// SetRotation sets the camera rotation in radians.
func (c *Camera) SetRotation(r float64) {
	if r == c.rotation {
		return
	}
	c.rotation = r
	c.dirty = true
}

// SetViewport sets the screen-space viewport rectangle.
func (c *Camera) SetViewport(v Rect) {
	if v == c.viewport {
		return
	}
	c.viewport = v
	c.dirty = true
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-x, -y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.viewport.X + c.viewport.Width/2
	cy := c.viewport.Y + c.viewport.Height/2

	cos := math.Cos(-c.rotation)
	sin := math.Sin(-c.rotation)
	z := c.zoom

	c.viewMatrix = [6]float64{
		z * cos,
		z * sin,
		-z * sin,
		z * cos,
		cx + z*(-cos*c.x+sin*c.y),
		cy + z*(-sin*c.x-cos*c.y),
	}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// ViewProjection returns the world-to-screen matrix. Implements View.
func (c *Camera) ViewProjection() [6]float64 {
	return c.computeViewMatrix()
}

// ScissorRectangle maps a light's world position and range to its
// screen-space clipping rectangle, clamped to the viewport. Implements View.
func (c *Camera) ScissorRectangle(l *Light) Rect {
	c.computeViewMatrix()
	sx, sy := transformPoint(c.viewMatrix, l.Position().X, l.Position().Y)
	half := l.Range() * c.zoom
	r := Rect{X: sx - half, Y: sy - half, Width: half * 2, Height: half * 2}
	return r.Intersect(c.viewport)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	inv := c.invViewMatrix

	vx := c.viewport.X
	vy := c.viewport.Y
	vr := vx + c.viewport.Width
	vb := vy + c.viewport.Height

	x0, y0 := transformPoint(inv, vx, vy)
	x1, y1 := transformPoint(inv, vr, vy)
	x2, y2 := transformPoint(inv, vr, vb)
	x3, y3 := transformPoint(inv, vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
