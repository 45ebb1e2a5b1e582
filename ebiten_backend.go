package umbra

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenBackend is the production Backend built on Ebitengine. It owns the
// scene and lightmap render textures, emulates the stencil buffer with an
// offscreen occlusion mask, and implements the scissor rectangle with
// SubImage clipping.
//
// Per frame: draw the world into Scene(), point SetOutput at the screen, then
// let the engine drive the rest.
type EbitenBackend struct {
	w, h int

	scene    *RenderTexture
	lightmap *RenderTexture
	stencil  *ebiten.Image // per-light occlusion mask (alpha = occlusion)
	scratch  *ebiten.Image // light quad compositing buffer
	output   *ebiten.Image

	bound     Target
	scissor   image.Rectangle
	scissorOn bool

	proj           [6]float64
	lightColor     Color
	lightIntensity float64

	circleCache map[int]*ebiten.Image // falloff textures keyed by quantized radius
	vertBuf     []ebiten.Vertex
	indBuf      []uint16
}

// NewEbitenBackend creates a backend with scene and lightmap targets sized
// (w x h) pixels.
func NewEbitenBackend(w, h int) *EbitenBackend {
	return &EbitenBackend{
		w:        w,
		h:        h,
		scene:    NewRenderTexture(w, h),
		lightmap: NewRenderTexture(w, h),
		stencil:  ebiten.NewImage(w, h),
		scratch:  ebiten.NewImage(w, h),
		proj:     identityTransform,
	}
}

// Scene returns the scene render texture. Draw the frame's world content into
// it before calling Engine.Render.
func (b *EbitenBackend) Scene() *RenderTexture { return b.scene }

// Lightmap returns the lightmap render texture.
func (b *EbitenBackend) Lightmap() *RenderTexture { return b.lightmap }

// SetOutput sets the final composite destination, typically the screen image
// passed to ebiten.Game's Draw.
func (b *EbitenBackend) SetOutput(img *ebiten.Image) { b.output = img }

// Resize recreates the offscreen targets at the given dimensions.
func (b *EbitenBackend) Resize(w, h int) {
	if w == b.w && h == b.h {
		return
	}
	b.w, b.h = w, h
	b.scene.Resize(w, h)
	b.lightmap.Resize(w, h)
	b.stencil.Deallocate()
	b.stencil = ebiten.NewImage(w, h)
	b.scratch.Deallocate()
	b.scratch = ebiten.NewImage(w, h)
}

// Dispose releases all resources owned by the backend.
func (b *EbitenBackend) Dispose() {
	b.scene.Dispose()
	b.lightmap.Dispose()
	b.stencil.Deallocate()
	b.scratch.Deallocate()
	for _, img := range b.circleCache {
		img.Deallocate()
	}
	b.circleCache = nil
	b.output = nil
}

// BindTarget implements Backend.
func (b *EbitenBackend) BindTarget(t Target) { b.bound = t }

// boundImage resolves the active draw destination. A missing output at
// composite time is an internal invariant violation.
func (b *EbitenBackend) boundImage() *ebiten.Image {
	switch b.bound {
	case TargetScene:
		return b.scene.Image()
	case TargetLightmap:
		return b.lightmap.Image()
	case TargetOutput:
		if b.output == nil {
			panic("umbra: output target drawn before SetOutput")
		}
		return b.output
	default:
		panic("umbra: draw with no render target bound")
	}
}

// srcImage resolves a sampled render target.
func (b *EbitenBackend) srcImage(t Target) *ebiten.Image {
	switch t {
	case TargetScene:
		return b.scene.Image()
	case TargetLightmap:
		return b.lightmap.Image()
	default:
		panic("umbra: output target cannot be sampled")
	}
}

// scissored clips img to the active scissor rectangle.
func (b *EbitenBackend) scissored(img *ebiten.Image) *ebiten.Image {
	if !b.scissorOn {
		return img
	}
	return img.SubImage(b.scissor).(*ebiten.Image)
}

// Clear implements Backend. Clearing the lightmap also resets the emulated
// stencil, matching a combined color/depth/stencil clear.
func (b *EbitenBackend) Clear(c Color) {
	switch b.bound {
	case TargetLightmap:
		b.lightmap.Fill(c)
		b.stencil.Clear()
	case TargetScene:
		b.scene.Fill(c)
	case TargetOutput:
		b.boundImage().Fill(c.toRGBA())
	default:
		panic("umbra: clear with no render target bound")
	}
}

// ClearStencil implements Backend.
func (b *EbitenBackend) ClearStencil() {
	b.stencil.Clear()
}

// SetScissor implements Backend.
func (b *EbitenBackend) SetScissor(r Rect) {
	clip := image.Rect(int(r.X), int(r.Y), int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)))
	b.scissor = clip.Intersect(image.Rect(0, 0, b.w, b.h))
	b.scissorOn = true
}

// ClearScissor implements Backend.
func (b *EbitenBackend) ClearScissor() {
	b.scissorOn = false
}

// SetProjection implements Backend.
func (b *EbitenBackend) SetProjection(m [6]float64) { b.proj = m }

// SetLightColor implements Backend.
func (b *EbitenBackend) SetLightColor(c Color) { b.lightColor = c }

// SetLightIntensity implements Backend.
func (b *EbitenBackend) SetLightIntensity(i float64) { b.lightIntensity = i }

// projScale returns the projection's uniform scale factor, used to carry
// world-space lengths into screen space.
func (b *EbitenBackend) projScale() float64 {
	return math.Hypot(b.proj[0], b.proj[1])
}

// DrawShadow implements Backend: generates screen-space shadow geometry for
// every enabled part of the hull and rasterizes it into the stencil mask.
func (b *EbitenBackend) DrawShadow(l *Light, techs ShadowTechniques, h *Hull) {
	world := h.WorldTransform()
	m := multiplyAffine(b.proj, world)
	scale := b.projScale()
	lightScreen := transformVec(b.proj, l.Position())
	projDist := l.Range() * 2 * scale
	radius := l.Radius() * scale
	dst := b.scissored(b.stencil)

	for _, part := range h.Parts() {
		if !part.Enabled() {
			continue
		}
		// Parts beyond the light's reach cannot shade anything inside the
		// scissor rectangle.
		center := transformVec(world, part.Centroid())
		if center.Sub(l.Position()).Length() > l.Range()+part.BoundingRadius() {
			continue
		}

		pts := make([]Vec2, len(part.Points()))
		for i, p := range part.Points() {
			pts[i] = transformVec(m, p)
		}
		mesh := buildShadowMesh(lightScreen, radius, projDist, pts)

		if techs.Umbra != TechniqueNone {
			b.fillTriangles(dst, mesh.Umbra, BlendNormal, false)
		}
		if techs.Penumbra != TechniqueNone {
			b.fillTriangles(dst, mesh.Penumbra, BlendNormal, false)
		}
		if techs.Antumbra != TechniqueNone {
			// The antumbra un-occludes past the convergence point: erase the
			// mask with strength 1 - occlusion.
			b.fillTriangles(dst, mesh.Antumbra, BlendErase, true)
		}
		switch techs.Solid {
		case TechniqueSolidShadow:
			b.fillTriangles(dst, mesh.Solid, BlendNormal, false)
		case TechniqueSolidIlluminated:
			// Lit interiors: punch the part back out of the occlusion mask.
			b.fillTriangles(dst, mesh.Solid, BlendErase, false)
		}
	}
}

// fillTriangles rasterizes shadow vertices as white triangles whose alpha is
// the occlusion strength (or its inverse for erase-style passes).
func (b *EbitenBackend) fillTriangles(dst *ebiten.Image, verts []shadowVertex, blend BlendMode, invertAlpha bool) {
	if len(verts) == 0 {
		return
	}
	if cap(b.vertBuf) < len(verts) {
		b.vertBuf = make([]ebiten.Vertex, len(verts))
		b.indBuf = make([]uint16, len(verts))
	}
	vs := b.vertBuf[:len(verts)]
	is := b.indBuf[:len(verts)]
	for i, v := range verts {
		a := v.Alpha
		if invertAlpha {
			a = 1 - a
		}
		f := float32(a)
		vs[i] = ebiten.Vertex{
			DstX: float32(v.Pos.X), DstY: float32(v.Pos.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: f, ColorG: f, ColorB: f, ColorA: f,
		}
		is[i] = uint16(i)
	}
	op := &ebiten.DrawTrianglesOptions{Blend: blend.EbitenBlend()}
	dst.DrawTriangles(vs, is, ensureWhitePixel(), op)
}

// DrawQuad implements Backend. TechniqueLightFalloff composes the light's
// radial falloff against the occlusion mask in a scratch buffer, then adds
// the result into the lightmap; other techniques draw a solid quad.
func (b *EbitenBackend) DrawQuad(t Technique, center Vec2, size Vec2) {
	if t == TechniqueNone {
		return
	}
	scale := b.projScale()
	sc := transformVec(b.proj, center)
	w := size.X * scale
	hgt := size.Y * scale

	if t != TechniqueLightFalloff {
		var op ebiten.DrawImageOptions
		op.GeoM.Scale(w, hgt)
		op.GeoM.Translate(sc.X-w/2, sc.Y-hgt/2)
		op.ColorScale.ScaleWithColor(b.lightColor.toRGBA())
		b.scissored(b.boundImage()).DrawImage(ensureWhitePixel(), &op)
		return
	}

	circle := b.falloffCircle(math.Max(w, hgt) / 2)
	cw := float64(circle.Bounds().Dx())
	ch := float64(circle.Bounds().Dy())

	b.scratch.Clear()

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w/cw, hgt/ch)
	op.GeoM.Translate(sc.X-w/2, sc.Y-hgt/2)
	i := float32(clamp01(b.lightIntensity))
	op.ColorScale.Scale(
		float32(b.lightColor.R)*i,
		float32(b.lightColor.G)*i,
		float32(b.lightColor.B)*i,
		i,
	)
	b.scratch.DrawImage(circle, &op)

	// Carve out occluded regions, then accumulate into the lightmap.
	var mask ebiten.DrawImageOptions
	mask.Blend = BlendErase.EbitenBlend()
	b.scratch.DrawImage(b.stencil, &mask)

	var add ebiten.DrawImageOptions
	add.Blend = BlendAdd.EbitenBlend()
	b.scissored(b.lightmap.Image()).DrawImage(b.scratch, &add)
}

// DrawCircle implements Backend. Used for debug light source markers.
func (b *EbitenBackend) DrawCircle(t Technique, center Vec2, radius float64) {
	if t == TechniqueNone {
		return
	}
	scale := b.projScale()
	sc := transformVec(b.proj, center)
	r := radius * scale
	circle := b.falloffCircle(r)
	cw := float64(circle.Bounds().Dx())

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r*2/cw, r*2/cw)
	op.GeoM.Translate(sc.X-r, sc.Y-r)
	op.ColorScale.ScaleWithColor(b.lightColor.toRGBA())
	b.scissored(b.boundImage()).DrawImage(circle, &op)
}

// DrawFullscreenQuad implements Backend.
func (b *EbitenBackend) DrawFullscreenQuad(t Technique, src Target) {
	if t == TechniqueNone {
		return
	}
	var op ebiten.DrawImageOptions
	switch t {
	case TechniqueMultiply:
		op.Blend = BlendMultiply.EbitenBlend()
	case TechniqueTexture:
		op.Blend = BlendNone.EbitenBlend()
	}
	b.boundImage().DrawImage(b.srcImage(src), &op)
}

// ClearAlpha implements Backend: forces the bound target's alpha channel
// opaque while leaving color untouched, so one light's additive alpha cannot
// leak into later passes.
func (b *EbitenBackend) ClearAlpha() {
	dst := b.boundImage()
	bounds := dst.Bounds()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(bounds.Dx()), float64(bounds.Dy()))
	op.GeoM.Translate(float64(bounds.Min.X), float64(bounds.Min.Y))
	op.Blend = BlendAlphaFix.EbitenBlend()
	dst.DrawImage(ensureWhitePixel(), &op)
}

// falloffCircle returns a cached radial falloff texture for the given
// radius, generating one if needed. Radius is quantized to the nearest
// integer and capped so huge lights reuse one scaled texture.
func (b *EbitenBackend) falloffCircle(radius float64) *ebiten.Image {
	key := int(math.Ceil(radius))
	if key < 1 {
		key = 1
	}
	if key > 512 {
		key = 512
	}
	if b.circleCache == nil {
		b.circleCache = make(map[int]*ebiten.Image)
	}
	if img, ok := b.circleCache[key]; ok {
		return img
	}
	img := generateFalloffCircle(float64(key))
	b.circleCache[key] = img
	return img
}

// generateFalloffCircle creates a feathered white circle image with the given
// radius. Uses smoothstep falloff and premultiplied alpha.
func generateFalloffCircle(radius float64) *ebiten.Image {
	size := int(math.Ceil(radius * 2))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	pix := make([]byte, size*size*4)

	cx, cy := radius, radius
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx+dy*dy) / radius

			var alpha float64
			if dist < 1 {
				// smoothstep: 1 at center, 0 at edge
				t := 1 - dist
				alpha = t * t * (3 - 2*t)
			}

			a := uint8(alpha * 255)
			off := (y*size + x) * 4
			pix[off+0] = a // premultiplied white
			pix[off+1] = a
			pix[off+2] = a
			pix[off+3] = a
		}
	}
	img.WritePixels(pix)
	return img
}

// --- White pixel singleton (no sync.Once — umbra is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by untextured quads and shadow triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(colorRGBA{255, 255, 255, 255})
	}
	return whitePixelImage
}
