package umbra

// ShadowTechniques bundles the four render technique handles used to draw one
// light's occluded regions: hard shadow fins (umbra), soft outer edges
// (penumbra), the fade past the umbra's convergence point (antumbra), and the
// occluder interior fill (solid).
type ShadowTechniques struct {
	Umbra    Technique
	Penumbra Technique
	Antumbra Technique
	Solid    Technique
}

// TechniquesFor maps a light's shadow-casting mode to its technique set. The
// mapping is total: every mode yields four valid handles, with TechniqueNone
// standing in for passes the mode doesn't use. Pure lookup, queried once per
// light per frame.
func TechniquesFor(t ShadowType) ShadowTechniques {
	switch t {
	case ShadowTypeOccluded:
		return ShadowTechniques{
			Umbra:    TechniqueShadowUmbra,
			Penumbra: TechniqueShadowPenumbra,
			Antumbra: TechniqueShadowAntumbra,
			Solid:    TechniqueSolidShadow,
		}
	case ShadowTypeSolid:
		return ShadowTechniques{
			Umbra:    TechniqueShadowUmbra,
			Penumbra: TechniqueNone,
			Antumbra: TechniqueNone,
			Solid:    TechniqueSolidShadow,
		}
	default: // ShadowTypeIlluminated
		return ShadowTechniques{
			Umbra:    TechniqueShadowUmbra,
			Penumbra: TechniqueShadowPenumbra,
			Antumbra: TechniqueShadowAntumbra,
			Solid:    TechniqueSolidIlluminated,
		}
	}
}

// shadowVertex is one vertex of generated shadow geometry. Alpha carries the
// occlusion strength so penumbra and antumbra fins can fade without shaders.
type shadowVertex struct {
	Pos   Vec2
	Alpha float64
}

// shadowMesh holds the triangle lists for one (light, hull part) pair, one
// list per technique. Each list is a flat sequence of triangles: every three
// consecutive vertices form one triangle.
type shadowMesh struct {
	Umbra    []shadowVertex
	Penumbra []shadowVertex
	Antumbra []shadowVertex
	Solid    []shadowVertex
}

// buildShadowMesh generates shadow geometry for a convex counter-clockwise
// polygon in world space, lit from lightPos. lightRadius > 0 produces
// penumbra fins at the silhouette vertices and an antumbra fade where the
// hard shadow converges. projDist is how far fins are extruded; it should
// comfortably exceed the light's scissor rectangle.
//
// A light inside the polygon yields degenerate geometry; callers are expected
// to skip contained lights first.
func buildShadowMesh(lightPos Vec2, lightRadius, projDist float64, part []Vec2) shadowMesh {
	n := len(part)
	var mesh shadowMesh

	// Solid fill: triangle fan over the convex part.
	for i := 1; i < n-1; i++ {
		mesh.Solid = append(mesh.Solid,
			shadowVertex{part[0], 1},
			shadowVertex{part[i], 1},
			shadowVertex{part[i+1], 1},
		)
	}

	// An edge is back-facing when its outward normal points away from the
	// light; those edges form the silhouette span that extrudes the umbra.
	back := make([]bool, n)
	for i := 0; i < n; i++ {
		p0 := part[i]
		p1 := part[(i+1)%n]
		edge := p1.Sub(p0)
		outward := Vec2{edge.Y, -edge.X}
		mid := p0.Add(p1).Scale(0.5)
		back[i] = outward.Dot(lightPos.Sub(mid)) < 0
	}

	for i := 0; i < n; i++ {
		if !back[i] {
			continue
		}
		v0 := part[i]
		v1 := part[(i+1)%n]
		p0 := v0.Add(v0.Sub(lightPos).Normalize().Scale(projDist))
		p1 := v1.Add(v1.Sub(lightPos).Normalize().Scale(projDist))
		mesh.Umbra = append(mesh.Umbra,
			shadowVertex{v0, 1}, shadowVertex{v1, 1}, shadowVertex{p1, 1},
			shadowVertex{v0, 1}, shadowVertex{p1, 1}, shadowVertex{p0, 1},
		)
	}

	if lightRadius <= 0 {
		return mesh
	}

	// Penumbra fins grow at silhouette vertices: where a front-facing edge
	// meets a back-facing one. Inner boundary projects from the light's near
	// edge, outer boundary from its far edge, fading to zero occlusion.
	type silhouette struct {
		vertex   Vec2
		inner    Vec2 // hard-shadow boundary direction
		frontDir Vec2 // along the adjacent front edge, away from the vertex
	}
	var sils []silhouette
	for i := 0; i < n; i++ {
		prev := back[(i+n-1)%n]
		next := back[i]
		if prev == next {
			continue
		}
		v := part[i]
		center := v.Sub(lightPos).Normalize()
		perp := center.Perp().Scale(lightRadius)

		var frontDir Vec2
		if next {
			// Entering the shadow span: previous edge is lit.
			frontDir = part[(i+n-1)%n].Sub(v).Normalize()
		} else {
			// Leaving the shadow span: next edge is lit.
			frontDir = part[(i+1)%n].Sub(v).Normalize()
		}

		// Of the two light-edge source points, the outer penumbra boundary is
		// the one that swings the projected direction toward the lit side,
		// which is the side of the center axis opposite the front edge.
		outerA := v.Sub(lightPos.Add(perp)).Normalize()
		outerB := v.Sub(lightPos.Sub(perp)).Normalize()
		outer, innerSrc := outerA, lightPos.Sub(perp)
		if sameSide := center.Cross(outerA) * center.Cross(frontDir); sameSide > 0 {
			outer, innerSrc = outerB, lightPos.Add(perp)
		}
		inner := v.Sub(innerSrc).Normalize()

		mesh.Penumbra = append(mesh.Penumbra,
			shadowVertex{v, 1},
			shadowVertex{v.Add(inner.Scale(projDist)), 1},
			shadowVertex{v.Add(outer.Scale(projDist)), 0},
		)
		sils = append(sils, silhouette{vertex: v, inner: inner, frontDir: frontDir})
	}

	// Antumbra: with an area light the two hard boundaries converge; past the
	// convergence point occlusion falls off. Convex parts have exactly two
	// silhouette vertices.
	if len(sils) == 2 {
		c, hit := rayIntersection(sils[0].vertex, sils[0].inner, sils[1].vertex, sils[1].inner)
		if hit {
			reach := c.Sub(lightPos).Length()
			if reach < projDist {
				fade := projDist - reach
				e0 := c.Add(sils[0].inner.Scale(fade))
				e1 := c.Add(sils[1].inner.Scale(fade))
				mesh.Antumbra = append(mesh.Antumbra,
					shadowVertex{c, 1},
					shadowVertex{e0, 0},
					shadowVertex{e1, 0},
				)
			}
		}
	}

	return mesh
}

// rayIntersection returns the intersection of two forward rays, reporting
// false for parallel rays or intersections behind either origin.
func rayIntersection(o0, d0, o1, d1 Vec2) (Vec2, bool) {
	denom := d0.Cross(d1)
	if denom > -1e-12 && denom < 1e-12 {
		return Vec2{}, false
	}
	diff := o1.Sub(o0)
	t0 := diff.Cross(d1) / denom
	t1 := diff.Cross(d0) / denom
	if t0 < 0 || t1 < 0 {
		return Vec2{}, false
	}
	return o0.Add(d0.Scale(t0)), true
}
