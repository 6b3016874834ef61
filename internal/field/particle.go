package field

import (
	"image/color"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/particle-field/internal/config"
)

// Particle is a single drifting point. Only X and Y change after creation.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Alpha  float64
	Color  color.NRGBA
}

// newParticle places a particle uniformly inside w x h.
func newParticle(rng *rand.Rand, w, h float64, opts config.ParticlesConfig) *Particle {
	p := &Particle{
		X:      rng.Float64() * w,
		Y:      rng.Float64() * h,
		Radius: rng.Float64()*opts.RadiusSpan + opts.RadiusMin,
		VX:     (rng.Float64() - 0.5) * opts.Speed,
		VY:     (rng.Float64() - 0.5) * opts.Speed,
		Alpha:  rng.Float64()*opts.AlphaSpan + opts.AlphaMin,
	}

	hue := opts.SecondaryHue
	if rng.Float64() > 1-opts.PrimaryHueChance {
		hue = opts.PrimaryHue
	}
	p.Color = hslaColor(hue, opts.Saturation, opts.Lightness, p.Alpha)
	return p
}

// hslaColor converts hue (degrees), saturation, lightness and alpha (0-1)
// into a non-premultiplied color.
func hslaColor(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha8(a)}
}

func alpha8(a float64) uint8 {
	return uint8(clamp01(a)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// update moves p by its velocity and wraps each axis to the opposite edge.
// The wrap is a hard snap, not a modulo; it relies on |v| staying below
// the bounds.
func (p *Particle) update(w, h float64) {
	p.X += p.VX
	p.Y += p.VY

	if p.X < 0 {
		p.X = w
	}
	if p.X > w {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = h
	}
	if p.Y > h {
		p.Y = 0
	}
}

func (p *Particle) draw(s Surface) {
	s.FillCircle(p.X, p.Y, p.Radius, p.Color)
}
