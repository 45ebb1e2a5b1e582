package umbra

// Target addresses one of the engine's render destinations.
type Target uint8

const (
	// TargetScene holds the application-drawn world for the frame.
	TargetScene Target = iota
	// TargetLightmap accumulates per-pixel light contribution.
	TargetLightmap
	// TargetOutput is the final composite destination (usually the screen).
	TargetOutput
)

// Technique is an opaque handle naming a draw technique. The engine treats
// techniques as identities to pass through to the backend; only backends
// assign them meaning.
type Technique uint8

const (
	// TechniqueNone is a no-op pass. Backends must accept and ignore it.
	TechniqueNone Technique = iota
	// TechniqueLightFalloff shades the light's illumination quad with radial
	// falloff, masked by accumulated shadow.
	TechniqueLightFalloff
	// TechniqueShadowUmbra draws hard shadow fins.
	TechniqueShadowUmbra
	// TechniqueShadowPenumbra draws soft outer shadow fins.
	TechniqueShadowPenumbra
	// TechniqueShadowAntumbra draws the fade past the umbra convergence point.
	TechniqueShadowAntumbra
	// TechniqueSolidIlluminated fills occluder interiors as lit surfaces.
	TechniqueSolidIlluminated
	// TechniqueSolidShadow fills occluder interiors as occluded.
	TechniqueSolidShadow
	// TechniqueTexture samples a render target without blending tricks.
	TechniqueTexture
	// TechniqueMultiply samples a render target with multiply blending, used
	// to composite the lightmap over the scene.
	TechniqueMultiply
	// TechniqueDebugMarker draws debug visualization primitives.
	TechniqueDebugMarker
)

// Backend is the rendering collaborator the engine drives. Implementations
// own the render targets, the stencil buffer, and the scissor rectangle;
// the engine sequences them but never touches pixels itself.
//
// EbitenBackend is the production implementation; tests substitute a
// recording implementation to assert call sequences.
type Backend interface {
	// BindTarget makes t the destination of subsequent draws.
	BindTarget(t Target)
	// Clear fills the bound target with c and resets its depth and stencil.
	Clear(c Color)
	// ClearStencil resets only the stencil buffer, leaving color intact.
	ClearStencil()
	// SetScissor clips subsequent draws to r (in screen space).
	SetScissor(r Rect)
	// ClearScissor removes the clipping rectangle.
	ClearScissor()

	// SetProjection sets the view-projection matrix shader parameter.
	SetProjection(m [6]float64)
	// SetLightColor sets the light color shader parameter.
	SetLightColor(c Color)
	// SetLightIntensity sets the light intensity shader parameter.
	SetLightIntensity(i float64)

	// DrawShadow renders one hull's shadow geometry for a light using the
	// four technique handles.
	DrawShadow(l *Light, techs ShadowTechniques, h *Hull)
	// DrawQuad draws a screen-aligned quad centered at center.
	DrawQuad(t Technique, center Vec2, size Vec2)
	// DrawCircle draws a circle centered at center.
	DrawCircle(t Technique, center Vec2, radius float64)
	// DrawFullscreenQuad draws a pass covering the whole bound target,
	// sampling src.
	DrawFullscreenQuad(t Technique, src Target)
	// ClearAlpha runs a fullscreen pass forcing the bound target's alpha
	// channel opaque, so one light's alpha cannot leak into the next
	// composite pass.
	ClearAlpha()
}

// View is the camera/projection collaborator: it supplies the frame's
// view-projection matrix and maps a light to its screen-space clipping
// rectangle.
type View interface {
	ViewProjection() [6]float64
	ScissorRectangle(l *Light) Rect
}

// targetNone is the renderState sentinel for "nothing bound yet".
const targetNone Target = 0xff

// renderState is the engine's render-state machine. Every target, stencil,
// and scissor mutation during a frame flows through it, making the legal
// sequence enforceable against any Backend. Illegal transitions are internal
// bugs and panic.
type renderState struct {
	backend   Backend
	target    Target
	scissorOn bool
}

func newRenderState(b Backend) *renderState {
	return &renderState{backend: b, target: targetNone}
}

// bindTarget switches the active draw target.
func (rs *renderState) bindTarget(t Target) {
	rs.target = t
	rs.backend.BindTarget(t)
}

// clear clears the bound target (color, depth, and stencil).
func (rs *renderState) clear(c Color) {
	if rs.target == targetNone {
		panic("umbra: clear with no render target bound")
	}
	rs.backend.Clear(c)
}

// clearStencil resets the stencil buffer. Only legal while the lightmap is
// bound: stencil state belongs to per-light shadow accumulation.
func (rs *renderState) clearStencil() {
	if rs.target != TargetLightmap {
		panic("umbra: stencil clear outside lightmap pass")
	}
	rs.backend.ClearStencil()
}

// setScissor scopes subsequent draws to a light's screen rectangle.
func (rs *renderState) setScissor(r Rect) {
	if rs.target != TargetLightmap {
		panic("umbra: scissor set outside lightmap pass")
	}
	rs.scissorOn = true
	rs.backend.SetScissor(r)
}

// clearScissor removes the clipping rectangle if one is active.
func (rs *renderState) clearScissor() {
	if !rs.scissorOn {
		return
	}
	rs.scissorOn = false
	rs.backend.ClearScissor()
}
