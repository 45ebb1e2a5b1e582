package umbra

import "testing"

func TestColorOpaque(t *testing.T) {
	c := Color{0.5, 0.25, 0.125, 0.3}.Opaque()
	if c != (Color{0.5, 0.25, 0.125, 1}) {
		t.Errorf("Opaque = %v", c)
	}
}

func TestVec2Ops(t *testing.T) {
	assertVec(t, "add", Vec2{1, 2}.Add(Vec2{3, 4}), Vec2{4, 6})
	assertVec(t, "sub", Vec2{1, 2}.Sub(Vec2{3, 4}), Vec2{-2, -2})
	assertVec(t, "scale", Vec2{1, 2}.Scale(3), Vec2{3, 6})
	assertNear(t, "length", Vec2{3, 4}.Length(), 5)
	assertVec(t, "normalize", Vec2{3, 4}.Normalize(), Vec2{0.6, 0.8})
	assertVec(t, "normalize zero", Vec2{}.Normalize(), Vec2{})
	assertVec(t, "perp", Vec2{1, 0}.Perp(), Vec2{0, 1})
	assertNear(t, "cross", Vec2{1, 0}.Cross(Vec2{0, 1}), 1)
	assertNear(t, "dot", Vec2{1, 2}.Dot(Vec2{3, 4}), 11)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 20, 20, true},
		{"edge", 10, 20, true},
		{"corner", 30, 30, true},
		{"left of", 9, 20, false},
		{"below", 20, 31, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("overlapping rects reported disjoint")
	}
	if !a.Intersects(Rect{X: 10, Y: 0, Width: 10, Height: 10}) {
		t.Error("edge-adjacent rects reported disjoint")
	}
	if a.Intersects(Rect{X: 11, Y: 0, Width: 10, Height: 10}) {
		t.Error("disjoint rects reported intersecting")
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	got := a.Intersect(Rect{X: 5, Y: -5, Width: 10, Height: 10})
	if got != (Rect{X: 5, Y: 0, Width: 5, Height: 5}) {
		t.Errorf("Intersect = %v", got)
	}

	empty := a.Intersect(Rect{X: 20, Y: 20, Width: 5, Height: 5})
	if empty.Width != 0 || empty.Height != 0 {
		t.Errorf("disjoint Intersect = %v, want zero size", empty)
	}
}

func TestHullFlagsBitset(t *testing.T) {
	var f HullFlags
	f.Set(HullFlagPosition)
	f.Set(HullFlagScale)
	if !f.Any(HullFlagPosition) || !f.Any(HullFlagScale) {
		t.Errorf("flags = %b missing set bits", f)
	}
	if f.Any(HullFlagRotation) {
		t.Errorf("flags = %b has unexpected rotation bit", f)
	}
	if !f.Any(HullFlagAll) {
		t.Error("Any(all) false on non-empty mask")
	}
	f.Clear()
	if f != 0 {
		t.Errorf("flags = %b after Clear", f)
	}
}

func TestLightFlagsBitset(t *testing.T) {
	var f LightFlags
	f.Set(LightFlagColor | LightFlagIntensity)
	if !f.Any(LightFlagColor) || !f.Any(LightFlagIntensity) {
		t.Errorf("flags = %b missing set bits", f)
	}
	if f.Any(LightFlagRange) {
		t.Errorf("flags = %b has unexpected range bit", f)
	}
	f.Clear()
	if f.Any(LightFlagAll) {
		t.Errorf("flags = %b after Clear", f)
	}
}

func TestClamp01(t *testing.T) {
	assertNear(t, "below", clamp01(-0.5), 0)
	assertNear(t, "inside", clamp01(0.25), 0.25)
	assertNear(t, "above", clamp01(1.5), 1)
}
