// Package umbra is a dynamic 2D shadow-casting light engine for [Ebitengine].
//
// Umbra computes per-frame lightmaps from point and area lights occluded by
// polygonal hulls. Arbitrary simple polygons are decomposed into convex parts
// once at construction; afterwards hulls and lights are cheap to move every
// frame thanks to dirty-flag tracking and lazily recomputed world transforms.
//
// # Quick start
//
// Create a backend sized to your viewport, an engine, and add occluders and
// lights:
//
//	backend := umbra.NewEbitenBackend(640, 480)
//	camera := umbra.NewCamera(umbra.Rect{Width: 640, Height: 480})
//	engine := umbra.NewEngine(backend, camera)
//
//	hull, err := umbra.NewHull([]umbra.Vec2{{0, 0}, {64, 0}, {64, 64}, {0, 64}}, umbra.WindingCounterClockwise)
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.AddHull(hull)
//
//	light := umbra.NewLight()
//	light.SetPosition(umbra.Vec2{X: 320, Y: 240})
//	light.SetRange(300)
//	engine.AddLight(light)
//
// Each frame, draw your world into backend.Scene(), then:
//
//	backend.SetOutput(screen)
//	engine.Render()
//
// Render accumulates every light's contribution into an offscreen lightmap,
// carving out shadow geometry per hull, and composites scene and lightmap
// onto the output.
//
// # Hulls and lights
//
// A [Hull] is an opaque occluder. Non-convex boundaries are split into convex
// [HullPart] polygons by [DecomposeIntoConvex]. A [Light] has position, range,
// radius, color, and a [ShadowType] selecting how occluded regions are drawn.
// Both track mutations in dirty-flag bitmasks that the engine clears at the
// end of each frame.
//
// Lights can be animated with tweens (via [gween]): see [Light.MoveTo] and
// [Light.FadeTo].
//
// # Backends
//
// The engine drives an abstract [Backend]; [EbitenBackend] is the production
// implementation. Tests can substitute a recording backend to assert the
// exact render-state sequence.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package umbra
