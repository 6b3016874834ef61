// Package field simulates and renders the landing page particle background:
// a set of slowly drifting points joined by faint lines when they come close.
package field

import (
	"image/color"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
)

// Field owns one particle set and its frame loop.
type Field struct {
	host   Host
	opts   config.ParticlesConfig
	rng    *rand.Rand
	logger *zap.Logger

	linkColor color.NRGBA

	width, height float64
	particles     []*Particle

	frame     FrameID
	scheduled bool
}

// New attaches a field to host. It returns nil when the host has no
// surface; all methods on a nil *Field do nothing.
func New(host Host, opts config.ParticlesConfig, rng *rand.Rand, logger *zap.Logger) *Field {
	if host.Surface == nil || host.Viewport == nil || host.Frames == nil {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	link, err := config.ParseColor(opts.LinkColor)
	if err != nil {
		link = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	}

	return &Field{
		host:      host,
		opts:      opts,
		rng:       rng,
		logger:    logger,
		linkColor: link,
	}
}

// Init recomputes bounds, rebuilds the particles and restarts the frame
// loop, cancelling any frame still pending from a previous loop.
func (f *Field) Init() {
	if f == nil {
		return
	}
	f.Resize()
	f.Build()
	if f.scheduled {
		f.host.Frames.CancelFrame(f.frame)
		f.scheduled = false
	}
	f.logger.Debug("particle field rebuilt",
		zap.Float64("width", f.width),
		zap.Float64("height", f.height),
		zap.Int("particles", len(f.particles)))
	f.Frame()
}

// Resize adopts the viewport size as the surface size. Particles left
// outside the new bounds are wrapped on their next update.
func (f *Field) Resize() {
	if f == nil {
		return
	}
	w, h := f.host.Viewport.Size()
	f.host.Surface.SetSize(w, h)
	f.width, f.height = float64(w), float64(h)
}

// Build replaces the particle set with a fresh one sized for the viewport.
func (f *Field) Build() {
	if f == nil {
		return
	}
	n := f.opts.DesktopCount
	if f.isMobile() {
		n = f.opts.MobileCount
	}

	particles := make([]*Particle, n)
	for i := range particles {
		particles[i] = newParticle(f.rng, f.width, f.height, f.opts)
	}
	f.particles = particles
}

// Frame draws one tick and schedules the next.
func (f *Field) Frame() {
	if f == nil {
		return
	}
	s := f.host.Surface
	s.Clear()

	maxD := f.LinkDistance()
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			alpha, ok := LinkAlpha(d, maxD, f.opts.LinkMaxAlpha)
			if !ok {
				continue
			}
			c := f.linkColor
			c.A = alpha8(alpha)
			s.StrokeLine(a.X, a.Y, b.X, b.Y, f.opts.LinkWidth, c)
		}
	}

	for _, p := range f.particles {
		p.update(f.width, f.height)
		p.draw(s)
	}

	f.frame = f.host.Frames.RequestFrame(f.Frame)
	f.scheduled = true
}

// LinkAlpha returns the opacity of a proximity line between two points d
// apart. It falls linearly from maxAlpha at d=0 to zero at the threshold,
// and ok is false once d reaches the threshold.
func LinkAlpha(d, threshold, maxAlpha float64) (alpha float64, ok bool) {
	if d >= threshold || threshold <= 0 {
		return 0, false
	}
	alpha = maxAlpha * (1 - d/threshold)
	return math.Min(alpha, maxAlpha), true
}

// LinkDistance is the proximity threshold for the current viewport.
func (f *Field) LinkDistance() float64 {
	if f == nil {
		return 0
	}
	if f.isMobile() {
		return f.opts.MobileLinkDistance
	}
	return f.opts.DesktopLinkDistance
}

func (f *Field) isMobile() bool {
	w, _ := f.host.Viewport.Size()
	return w <= f.opts.Breakpoint
}

// Particles returns the current particle set. The slice is shared with the
// field and replaced wholesale by Build.
func (f *Field) Particles() []*Particle {
	if f == nil {
		return nil
	}
	return f.particles
}

// Bounds returns the width and height used for wraparound.
func (f *Field) Bounds() (w, h float64) {
	if f == nil {
		return 0, 0
	}
	return f.width, f.height
}
