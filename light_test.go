package umbra

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	if !l.Enabled() {
		t.Error("new light is disabled")
	}
	if !l.CastsShadows() {
		t.Error("new light does not cast shadows")
	}
	if l.ShadowType() != ShadowTypeIlluminated {
		t.Errorf("shadow type = %v, want illuminated", l.ShadowType())
	}
	assertNear(t, "range", l.Range(), 128)
	assertNear(t, "radius", l.Radius(), 8)
	assertNear(t, "intensity", l.Intensity(), 1)
	if l.Color() != ColorWhite {
		t.Errorf("color = %v, want white", l.Color())
	}
	if l.Flags() != LightFlagAll {
		t.Errorf("flags = %b, want all bits", l.Flags())
	}
}

func TestLightSettersAccumulateFlags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Light)
		want   LightFlags
	}{
		{"position", func(l *Light) { l.SetPosition(Vec2{1, 2}) }, LightFlagPosition},
		{"range", func(l *Light) { l.SetRange(300) }, LightFlagRange},
		{"radius", func(l *Light) { l.SetRadius(16) }, LightFlagRadius},
		{"color", func(l *Light) { l.SetColor(Color{1, 0, 0, 1}) }, LightFlagColor},
		{"intensity", func(l *Light) { l.SetIntensity(0.5) }, LightFlagIntensity},
		{"enabled", func(l *Light) { l.SetEnabled(false) }, LightFlagEnabled},
		{"casts shadows", func(l *Light) { l.SetCastsShadows(false) }, LightFlagCastsShadows},
		{"shadow type", func(l *Light) { l.SetShadowType(ShadowTypeOccluded) }, LightFlagShadowType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLight()
			l.clearDirty()
			tt.mutate(l)
			if l.Flags() != tt.want {
				t.Errorf("flags = %b, want %b", l.Flags(), tt.want)
			}
		})
	}
}

func TestLightSameValueWriteIsNoOp(t *testing.T) {
	l := NewLight()
	l.clearDirty()

	l.SetPosition(Vec2{})
	l.SetRange(128)
	l.SetRadius(8)
	l.SetColor(ColorWhite)
	l.SetIntensity(1)
	l.SetEnabled(true)
	l.SetCastsShadows(true)
	l.SetShadowType(ShadowTypeIlluminated)

	if l.Flags() != 0 {
		t.Errorf("same-value writes set flags %b", l.Flags())
	}
}

func TestLightMoveTo(t *testing.T) {
	l := NewLight()
	l.clearDirty()
	l.MoveTo(Vec2{100, 50}, 1, ease.Linear)

	l.Update(0.5)
	assertVec(t, "midpoint", l.Position(), Vec2{50, 25})
	if !l.Flags().Any(LightFlagPosition) {
		t.Error("tween write did not set the position flag")
	}

	l.Update(1)
	assertVec(t, "endpoint", l.Position(), Vec2{100, 50})
	if l.move != nil {
		t.Error("finished animation was not released")
	}

	// Further updates leave the light where the tween ended.
	l.clearDirty()
	l.Update(0.5)
	assertVec(t, "after finish", l.Position(), Vec2{100, 50})
	if l.Flags() != 0 {
		t.Errorf("idle update set flags %b", l.Flags())
	}
}

func TestLightMoveToReplacesInFlight(t *testing.T) {
	l := NewLight()
	l.MoveTo(Vec2{100, 0}, 1, ease.Linear)
	l.Update(0.5)
	l.MoveTo(Vec2{0, 0}, 1, ease.Linear)
	l.Update(0.5)
	assertVec(t, "position", l.Position(), Vec2{25, 0})
}

func TestLightFadeTo(t *testing.T) {
	l := NewLight()
	l.clearDirty()
	l.FadeTo(0, 2, ease.Linear)

	l.Update(1)
	assertNear(t, "mid fade", l.Intensity(), 0.5)
	if !l.Flags().Any(LightFlagIntensity) {
		t.Error("fade did not set the intensity flag")
	}

	l.Update(2)
	assertNear(t, "end fade", l.Intensity(), 0)
	if l.fade != nil {
		t.Error("finished fade was not released")
	}
}
