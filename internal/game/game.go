// Package game hosts the particle field in an ebiten window: the window is
// the viewport, an offscreen image is the canvas and every Update tick is
// one display refresh.
package game

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/debounce"
	"github.com/iburimskiy/particle-field/internal/field"
	"github.com/iburimskiy/particle-field/internal/frame"
)

type Game struct {
	cfg    config.Config
	logger *zap.Logger

	canvas   *canvas
	viewport *layoutViewport
	frames   *frame.Queue
	field    *field.Field

	// resize is debounced off the game goroutine; the rebuild itself
	// happens in Update once needsRebuild is seen.
	resize       *debounce.Debouncer
	needsRebuild atomic.Bool

	background color.NRGBA
	started    bool
	startedAt  time.Time
	rebuilds   int

	paused    bool
	showStats bool
}

func NewGame(cfg config.Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bg, err := config.ParseColor(cfg.Window.Background)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:        cfg,
		logger:     logger,
		viewport:   &layoutViewport{},
		frames:     frame.NewQueue(),
		background: bg,
		showStats:  cfg.Window.ShowStats,
	}
	g.resize = debounce.New(cfg.Particles.ResizeDebounce, func() { g.needsRebuild.Store(true) })

	host := field.Host{Viewport: g.viewport, Frames: g.frames}
	if cfg.Particles.Enabled {
		g.canvas = &canvas{}
		host.Surface = g.canvas
	} else {
		logger.Info("Particles disabled; running without a canvas.")
	}
	g.field = field.New(host, cfg.Particles, newRand(cfg.Particles.Seed), logger.Named("field"))

	return g, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showStats = !g.showStats
	}

	g.tick()
	return nil
}

// tick runs frames requested on earlier ticks, then starts or restarts the
// field if needed. A restart draws its first frame immediately, so running
// the queue afterwards would advance the particles twice in one tick.
func (g *Game) tick() {
	if !g.paused {
		g.frames.Run()
	}

	switch {
	case !g.started && g.viewport.known():
		g.started = true
		g.startedAt = time.Now()
		g.field.Init()
		w, h := g.viewport.Size()
		g.logger.Info("Particle field started",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("particles", len(g.field.Particles())))
	case g.started && g.needsRebuild.Swap(false):
		g.rebuilds++
		g.field.Init()
		w, h := g.viewport.Size()
		g.logger.Debug("Viewport settled; field rebuilt",
			zap.Int("width", w), zap.Int("height", h),
			zap.Int("rebuilds", g.rebuilds))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)
	if g.canvas != nil && g.canvas.img != nil {
		screen.DrawImage(g.canvas.img, nil)
	}
	if g.showStats {
		ebitenutil.DebugPrintAt(screen, g.stats(), 12, 12)
	}
}

// Layout keeps the screen at the window's size. A size change after
// startup arms the resize debouncer.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.viewport.set(outsideWidth, outsideHeight) && g.started {
		g.resize.Trigger()
	}
	if !g.viewport.known() {
		return outsideWidth, outsideHeight
	}
	return g.viewport.Size()
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	g.logger.Info("Animation toggled", zap.Bool("paused", g.paused))
}

// Close drops a pending rebuild so no timer outlives the window.
func (g *Game) Close() {
	g.resize.Stop()
}

func (g *Game) stats() string {
	w, h := g.viewport.Size()
	status := "running"
	if g.paused {
		status = "paused"
	}
	uptime := time.Duration(0)
	if g.started {
		uptime = time.Since(g.startedAt)
	}
	return fmt.Sprintf("TPS %.0f  FPS %.0f  %s\nviewport %dx%d  particles %d  link %.0fpx\nrebuilds %d  up %s",
		ebiten.ActualTPS(), ebiten.ActualFPS(), status,
		w, h, len(g.field.Particles()), g.field.LinkDistance(),
		g.rebuilds, formatDuration(uptime))
}
