package umbra

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ShadowType selects how a light's occluded regions are rendered.
type ShadowType uint8

const (
	// ShadowTypeIlluminated lights the interior of occluders while still
	// casting shadows behind them.
	ShadowTypeIlluminated ShadowType = iota
	// ShadowTypeOccluded darkens occluder interiors. Each light's occlusion
	// mask is isolated: the stencil is cleared before this light's shadows.
	ShadowTypeOccluded
	// ShadowTypeSolid casts hard, fully black shadows with no soft edges.
	ShadowTypeSolid
)

// moveAnim holds active position tweens for light X and Y.
type moveAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Light is a point/area light source. All mutations go through setters so the
// dirty-flag bitmask stays accurate; the engine clears the mask after
// processing the light each frame.
type Light struct {
	pos          Vec2
	rng          float64
	radius       float64
	color        Color
	intensity    float64
	enabled      bool
	castsShadows bool
	shadowType   ShadowType

	flags LightFlags

	move *moveAnim
	fade *gween.Tween
}

// NewLight creates an enabled, shadow-casting white light with intensity 1.
func NewLight() *Light {
	return &Light{
		rng:          128,
		radius:       8,
		color:        ColorWhite,
		intensity:    1,
		enabled:      true,
		castsShadows: true,
		shadowType:   ShadowTypeIlluminated,
		flags:        LightFlagAll,
	}
}

// Flags returns the dirty-flag bitmask accumulated since the engine last
// cleared it.
func (l *Light) Flags() LightFlags { return l.flags }

// Position returns the light's world position.
func (l *Light) Position() Vec2 { return l.pos }

// Range returns the scalar extent of the light's influence; the illumination
// quad is drawn at Range*2 per side.
func (l *Light) Range() float64 { return l.rng }

// Radius returns the visual size of the light source itself, used for
// penumbra spread and the debug marker.
func (l *Light) Radius() float64 { return l.radius }

// Color returns the light's color.
func (l *Light) Color() Color { return l.color }

// Intensity returns the brightness factor.
func (l *Light) Intensity() float64 { return l.intensity }

// Enabled reports whether the light is processed during Render.
func (l *Light) Enabled() bool { return l.enabled }

// CastsShadows reports whether occluders block this light.
func (l *Light) CastsShadows() bool { return l.castsShadows }

// ShadowType returns the light's shadow-casting mode.
func (l *Light) ShadowType() ShadowType { return l.shadowType }

// SetPosition moves the light. Same-value writes are no-ops.
func (l *Light) SetPosition(p Vec2) {
	if p == l.pos {
		return
	}
	l.pos = p
	l.flags.Set(LightFlagPosition)
}

// SetRange sets the light's influence extent. Same-value writes are no-ops.
func (l *Light) SetRange(r float64) {
	if r == l.rng {
		return
	}
	l.rng = r
	l.flags.Set(LightFlagRange)
}

// SetRadius sets the light source's visual size. Same-value writes are no-ops.
func (l *Light) SetRadius(r float64) {
	if r == l.radius {
		return
	}
	l.radius = r
	l.flags.Set(LightFlagRadius)
}

// SetColor sets the light color. Same-value writes are no-ops.
func (l *Light) SetColor(c Color) {
	if c == l.color {
		return
	}
	l.color = c
	l.flags.Set(LightFlagColor)
}

// SetIntensity sets the brightness factor. Same-value writes are no-ops.
func (l *Light) SetIntensity(i float64) {
	if i == l.intensity {
		return
	}
	l.intensity = i
	l.flags.Set(LightFlagIntensity)
}

// SetEnabled toggles the light. Same-value writes are no-ops.
func (l *Light) SetEnabled(enabled bool) {
	if enabled == l.enabled {
		return
	}
	l.enabled = enabled
	l.flags.Set(LightFlagEnabled)
}

// SetCastsShadows toggles shadow casting. Same-value writes are no-ops.
func (l *Light) SetCastsShadows(casts bool) {
	if casts == l.castsShadows {
		return
	}
	l.castsShadows = casts
	l.flags.Set(LightFlagCastsShadows)
}

// SetShadowType sets the shadow-casting mode. Same-value writes are no-ops.
func (l *Light) SetShadowType(t ShadowType) {
	if t == l.shadowType {
		return
	}
	l.shadowType = t
	l.flags.Set(LightFlagShadowType)
}

// MoveTo animates the light to the given world position over duration
// seconds. Step the animation with Update. A second call replaces any
// animation in flight.
func (l *Light) MoveTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	l.move = &moveAnim{
		tweenX: gween.New(float32(l.pos.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(l.pos.Y), float32(target.Y), duration, easeFn),
	}
}

// FadeTo animates the light's intensity over duration seconds.
func (l *Light) FadeTo(intensity float64, duration float32, easeFn ease.TweenFunc) {
	l.fade = gween.New(float32(l.intensity), float32(intensity), duration, easeFn)
}

// Update advances active tweens by dt seconds. Tween-driven writes go through
// the regular setters so dirty flags accumulate as if the caller had moved
// the light directly.
func (l *Light) Update(dt float32) {
	if l.move != nil {
		p := l.pos
		if !l.move.doneX {
			val, done := l.move.tweenX.Update(dt)
			p.X = float64(val)
			l.move.doneX = done
		}
		if !l.move.doneY {
			val, done := l.move.tweenY.Update(dt)
			p.Y = float64(val)
			l.move.doneY = done
		}
		l.SetPosition(p)
		if l.move.doneX && l.move.doneY {
			l.move = nil
		}
	}
	if l.fade != nil {
		val, done := l.fade.Update(dt)
		l.SetIntensity(float64(val))
		if done {
			l.fade = nil
		}
	}
}

// clearDirty resets the dirty mask. Called by the engine once the light has
// been processed (or skipped) for the frame.
func (l *Light) clearDirty() {
	l.flags.Clear()
}
