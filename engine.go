package umbra

// Engine runs the per-frame lighting loop: for each enabled light it tests
// containment against occluders, selects a shadow strategy, and drives
// render-target, stencil, and scissor state to accumulate shadow and light
// contributions into the lightmap, which is finally composited over the
// scene.
//
// The engine is strictly single-threaded: render-target binding, stencil
// contents, and the scissor rectangle are shared mutable state with no
// isolation, so one Render call must finish before anything else touches the
// backend. Light and hull collections may be mutated freely between frames
// but not during Render.
type Engine struct {
	backend Backend
	view    View

	lights []*Light
	hulls  []*Hull

	ambient      Color
	viewOverride [6]float64
	overrideSet  bool

	// DebugDraw enables light source markers and per-frame stats logging.
	// Markers never affect the lightmap's color or alpha semantics.
	DebugDraw bool

	// Logger receives diagnostic output when set; defaults to the standard
	// log package. Attach at startup, detach by setting nil.
	Logger func(format string, args ...any)
}

// NewEngine creates an engine driving the given backend and view collaborators.
func NewEngine(backend Backend, view View) *Engine {
	return &Engine{
		backend: backend,
		view:    view,
		ambient: Color{0, 0, 0, 1},
	}
}

// AddLight appends a light to the engine. Lights are processed in insertion
// order.
func (e *Engine) AddLight(l *Light) {
	e.lights = append(e.lights, l)
}

// RemoveLight removes a light from the engine.
func (e *Engine) RemoveLight(l *Light) {
	for i, existing := range e.lights {
		if existing == l {
			e.lights = append(e.lights[:i], e.lights[i+1:]...)
			return
		}
	}
}

// Lights returns the current light list. The returned slice MUST NOT be mutated.
func (e *Engine) Lights() []*Light { return e.lights }

// AddHull appends an occluder to the engine.
func (e *Engine) AddHull(h *Hull) {
	e.hulls = append(e.hulls, h)
}

// RemoveHull removes an occluder from the engine.
func (e *Engine) RemoveHull(h *Hull) {
	for i, existing := range e.hulls {
		if existing == h {
			e.hulls = append(e.hulls[:i], e.hulls[i+1:]...)
			return
		}
	}
}

// Hulls returns the current hull list. The returned slice MUST NOT be mutated.
func (e *Engine) Hulls() []*Hull { return e.hulls }

// SetAmbientColor sets the baseline illumination for unlit areas. The color
// is clamped to opaque.
func (e *Engine) SetAmbientColor(c Color) {
	e.ambient = c.Opaque()
}

// AmbientColor returns the current ambient color.
func (e *Engine) AmbientColor() Color { return e.ambient }

// SetViewProjection overrides the view collaborator's matrix for subsequent
// frames.
func (e *Engine) SetViewProjection(m [6]float64) {
	e.viewOverride = m
	e.overrideSet = true
}

// ClearViewProjection removes the override, restoring the view collaborator's
// matrix.
func (e *Engine) ClearViewProjection() {
	e.overrideSet = false
}

// viewProjection resolves the frame's view-projection matrix.
func (e *Engine) viewProjection() [6]float64 {
	if e.overrideSet {
		return e.viewOverride
	}
	return e.view.ViewProjection()
}

// Update advances light animations by dt seconds. Call once per frame before
// Render when lights use MoveTo/FadeTo.
func (e *Engine) Update(dt float32) {
	for _, l := range e.lights {
		l.Update(dt)
	}
}

// IsInside reports whether the light's position lies within any of the
// hull's convex parts. Contained lights cast degenerate shadow geometry and
// are skipped entirely. O(parts x vertices) per pair; fine at the scale of
// tens of lights and hulls.
func IsInside(l *Light, h *Hull) bool {
	world := h.WorldTransform()
	local := transformVec(invertAffine(world), l.Position())
	for _, part := range h.Parts() {
		// Cheap reject against the part's cached world bounding radius.
		center := transformVec(world, part.Centroid())
		d := l.Position().Sub(center)
		r := part.BoundingRadius()
		if d.Dot(d) > r*r {
			continue
		}
		if pointInConvex(local, part.Points()) {
			return true
		}
	}
	return false
}

// lightOccluded reports whether the light sits inside any enabled hull.
func (e *Engine) lightOccluded(l *Light) bool {
	for _, h := range e.hulls {
		if !h.Enabled() {
			continue
		}
		if IsInside(l, h) {
			return true
		}
	}
	return false
}

// Render executes one frame of the lighting pipeline:
//
//  1. Bind the scene target (its content is drawn by the application).
//  2. Bind the lightmap and clear it to the ambient color.
//  3. Set the view-projection shader parameter.
//  4. Per enabled, non-contained light: clear the stencil for occluded-mode
//     lights, scope the scissor to the light's screen rectangle, draw shadow
//     geometry for every enabled hull, draw the illumination quad, optionally
//     a debug marker, then an alpha-clear pass; finally mark the light clean.
//  5. Bind the output target.
//  6. Composite: fullscreen scene pass, then fullscreen lightmap pass with
//     multiply blending.
//  7. Mark every hull clean.
//
// There are no recoverable error paths: a missing collaborator or impossible
// state is an internal bug and panics, aborting the frame.
func (e *Engine) Render() {
	if e.backend == nil {
		panic("umbra: Render with nil backend")
	}
	if e.view == nil {
		panic("umbra: Render with nil view")
	}

	var stats frameStats
	st := newRenderState(e.backend)

	st.bindTarget(TargetScene)

	st.bindTarget(TargetLightmap)
	st.clear(e.ambient)
	e.backend.SetProjection(e.viewProjection())

	for _, l := range e.lights {
		if !l.Enabled() {
			l.clearDirty()
			stats.lightsSkipped++
			continue
		}
		if e.lightOccluded(l) {
			l.clearDirty()
			stats.lightsSkipped++
			continue
		}

		mode := l.ShadowType()
		if mode == ShadowTypeOccluded {
			// Occluded-mode lights need an isolated occlusion mask; other
			// modes intentionally share leftover stencil state.
			st.clearStencil()
		}

		st.setScissor(e.view.ScissorRectangle(l))

		if l.CastsShadows() {
			techs := TechniquesFor(mode)
			for _, h := range e.hulls {
				if !h.Enabled() {
					continue
				}
				e.backend.DrawShadow(l, techs, h)
				stats.shadowDraws++
			}
		}

		e.backend.SetLightColor(l.Color())
		e.backend.SetLightIntensity(l.Intensity())
		e.backend.DrawQuad(TechniqueLightFalloff, l.Position(), Vec2{l.Range() * 2, l.Range() * 2})

		if e.DebugDraw {
			e.backend.DrawCircle(TechniqueDebugMarker, l.Position(), l.Radius())
		}

		e.backend.ClearAlpha()
		l.clearDirty()
		stats.lightsDrawn++
	}

	st.clearScissor()
	st.bindTarget(TargetOutput)
	e.backend.DrawFullscreenQuad(TechniqueTexture, TargetScene)
	e.backend.DrawFullscreenQuad(TechniqueMultiply, TargetLightmap)

	for _, h := range e.hulls {
		h.clearDirty()
	}

	if e.DebugDraw {
		e.logStats(stats)
	}
}
