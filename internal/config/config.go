package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
	WindowTitle  = "Particle Field - Space: pause, D: stats, Esc/Q: quit"

	// Viewport widths at or below this are treated as mobile.
	MobileBreakpoint = 768

	DesktopCount = 40
	MobileCount  = 16

	DesktopLinkDistance = 120
	MobileLinkDistance  = 80
	LinkMaxAlpha        = 0.055
	LinkWidth           = 0.4

	// Velocity components are drawn from (-Speed/2, Speed/2).
	Speed = 0.22

	RadiusMin  = 0.35
	RadiusSpan = 1.4
	AlphaMin   = 0.08
	AlphaSpan  = 0.38

	PrimaryHue       = 215
	SecondaryHue     = 265
	PrimaryHueChance = 0.4
	Saturation       = 0.72
	Lightness        = 0.66

	ResizeDebounce = 300 * time.Millisecond
)

// Config is the full runtime configuration.
type Config struct {
	Window    WindowConfig    `mapstructure:"window" yaml:"window"`
	Particles ParticlesConfig `mapstructure:"particles" yaml:"particles"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
}

type WindowConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Title      string `mapstructure:"title" yaml:"title"`
	Resizable  bool   `mapstructure:"resizable" yaml:"resizable"`
	TPS        int    `mapstructure:"tps" yaml:"tps"`
	Background string `mapstructure:"background" yaml:"background"`
	ShowStats  bool   `mapstructure:"show_stats" yaml:"show_stats"`
}

// ParticlesConfig controls the particle field. Enabled=false leaves the
// window without a drawing surface, so the field never starts.
type ParticlesConfig struct {
	Enabled             bool          `mapstructure:"enabled" yaml:"enabled"`
	DesktopCount        int           `mapstructure:"desktop_count" yaml:"desktop_count"`
	MobileCount         int           `mapstructure:"mobile_count" yaml:"mobile_count"`
	Breakpoint          int           `mapstructure:"breakpoint" yaml:"breakpoint"`
	DesktopLinkDistance float64       `mapstructure:"desktop_link_distance" yaml:"desktop_link_distance"`
	MobileLinkDistance  float64       `mapstructure:"mobile_link_distance" yaml:"mobile_link_distance"`
	LinkMaxAlpha        float64       `mapstructure:"link_max_alpha" yaml:"link_max_alpha"`
	LinkWidth           float64       `mapstructure:"link_width" yaml:"link_width"`
	LinkColor           string        `mapstructure:"link_color" yaml:"link_color"`
	Speed               float64       `mapstructure:"speed" yaml:"speed"`
	RadiusMin           float64       `mapstructure:"radius_min" yaml:"radius_min"`
	RadiusSpan          float64       `mapstructure:"radius_span" yaml:"radius_span"`
	AlphaMin            float64       `mapstructure:"alpha_min" yaml:"alpha_min"`
	AlphaSpan           float64       `mapstructure:"alpha_span" yaml:"alpha_span"`
	PrimaryHue          float64       `mapstructure:"primary_hue" yaml:"primary_hue"`
	SecondaryHue        float64       `mapstructure:"secondary_hue" yaml:"secondary_hue"`
	PrimaryHueChance    float64       `mapstructure:"primary_hue_chance" yaml:"primary_hue_chance"`
	Saturation          float64       `mapstructure:"saturation" yaml:"saturation"`
	Lightness           float64       `mapstructure:"lightness" yaml:"lightness"`
	Seed                uint64        `mapstructure:"seed" yaml:"seed"`
	ResizeDebounce      time.Duration `mapstructure:"resize_debounce" yaml:"resize_debounce"`
}

// LoggerConfig mirrors the zap/lumberjack knobs used by observability.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
}

// Default returns the configuration the landing page ships with.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:      WindowWidth,
			Height:     WindowHeight,
			Title:      WindowTitle,
			Resizable:  true,
			TPS:        60,
			Background: "#0b1020",
		},
		Particles: DefaultParticles(),
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "particle-field",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      7,
		},
	}
}

func DefaultParticles() ParticlesConfig {
	return ParticlesConfig{
		Enabled:             true,
		DesktopCount:        DesktopCount,
		MobileCount:         MobileCount,
		Breakpoint:          MobileBreakpoint,
		DesktopLinkDistance: DesktopLinkDistance,
		MobileLinkDistance:  MobileLinkDistance,
		LinkMaxAlpha:        LinkMaxAlpha,
		LinkWidth:           LinkWidth,
		LinkColor:           "#3b82f6",
		Speed:               Speed,
		RadiusMin:           RadiusMin,
		RadiusSpan:          RadiusSpan,
		AlphaMin:            AlphaMin,
		AlphaSpan:           AlphaSpan,
		PrimaryHue:          PrimaryHue,
		SecondaryHue:        SecondaryHue,
		PrimaryHueChance:    PrimaryHueChance,
		Saturation:          Saturation,
		Lightness:           Lightness,
		ResizeDebounce:      ResizeDebounce,
	}
}

// SetDefaults registers every default under its mapstructure key so that
// env overrides work for keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.resizable", d.Window.Resizable)
	v.SetDefault("window.tps", d.Window.TPS)
	v.SetDefault("window.background", d.Window.Background)
	v.SetDefault("window.show_stats", d.Window.ShowStats)

	p := d.Particles
	v.SetDefault("particles.enabled", p.Enabled)
	v.SetDefault("particles.desktop_count", p.DesktopCount)
	v.SetDefault("particles.mobile_count", p.MobileCount)
	v.SetDefault("particles.breakpoint", p.Breakpoint)
	v.SetDefault("particles.desktop_link_distance", p.DesktopLinkDistance)
	v.SetDefault("particles.mobile_link_distance", p.MobileLinkDistance)
	v.SetDefault("particles.link_max_alpha", p.LinkMaxAlpha)
	v.SetDefault("particles.link_width", p.LinkWidth)
	v.SetDefault("particles.link_color", p.LinkColor)
	v.SetDefault("particles.speed", p.Speed)
	v.SetDefault("particles.radius_min", p.RadiusMin)
	v.SetDefault("particles.radius_span", p.RadiusSpan)
	v.SetDefault("particles.alpha_min", p.AlphaMin)
	v.SetDefault("particles.alpha_span", p.AlphaSpan)
	v.SetDefault("particles.primary_hue", p.PrimaryHue)
	v.SetDefault("particles.secondary_hue", p.SecondaryHue)
	v.SetDefault("particles.primary_hue_chance", p.PrimaryHueChance)
	v.SetDefault("particles.saturation", p.Saturation)
	v.SetDefault("particles.lightness", p.Lightness)
	v.SetDefault("particles.seed", p.Seed)
	v.SetDefault("particles.resize_debounce", p.ResizeDebounce)

	l := d.Logger
	v.SetDefault("logger.level", l.Level)
	v.SetDefault("logger.format", l.Format)
	v.SetDefault("logger.service_name", l.ServiceName)
	v.SetDefault("logger.log_file", l.LogFile)
	v.SetDefault("logger.max_size", l.MaxSize)
	v.SetDefault("logger.max_backups", l.MaxBackups)
	v.SetDefault("logger.max_age", l.MaxAge)
	v.SetDefault("logger.compress", l.Compress)
	v.SetDefault("logger.add_source", l.AddSource)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps must be positive, got %d", c.Window.TPS))
	}
	if _, err := ParseColor(c.Window.Background); err != nil {
		errs = append(errs, fmt.Errorf("window.background: %w", err))
	}
	if err := c.Particles.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logger.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format))
	}

	return errors.Join(errs...)
}

func (p *ParticlesConfig) Validate() error {
	var errs []error

	if p.MobileCount <= 0 || p.DesktopCount <= 0 {
		errs = append(errs, fmt.Errorf("particle counts must be positive, got mobile=%d desktop=%d", p.MobileCount, p.DesktopCount))
	} else if p.MobileCount > p.DesktopCount {
		errs = append(errs, fmt.Errorf("mobile_count %d exceeds desktop_count %d", p.MobileCount, p.DesktopCount))
	}
	if p.Breakpoint <= 0 {
		errs = append(errs, fmt.Errorf("breakpoint must be positive, got %d", p.Breakpoint))
	}
	if p.DesktopLinkDistance <= 0 || p.MobileLinkDistance <= 0 {
		errs = append(errs, errors.New("link distances must be positive"))
	}
	if p.LinkMaxAlpha <= 0 || p.LinkMaxAlpha > 1 {
		errs = append(errs, fmt.Errorf("link_max_alpha must be in (0, 1], got %v", p.LinkMaxAlpha))
	}
	if p.LinkWidth <= 0 {
		errs = append(errs, fmt.Errorf("link_width must be positive, got %v", p.LinkWidth))
	}
	if _, err := ParseColor(p.LinkColor); err != nil {
		errs = append(errs, fmt.Errorf("particles.link_color: %w", err))
	}
	// Wraparound snaps to the opposite edge instead of taking a modulo, which
	// is only correct while a particle moves less than one pixel per frame.
	if p.Speed <= 0 || p.Speed > 2 {
		errs = append(errs, fmt.Errorf("speed must be in (0, 2], got %v", p.Speed))
	}
	if p.RadiusMin <= 0 || p.RadiusSpan < 0 {
		errs = append(errs, errors.New("radius_min must be positive and radius_span non-negative"))
	}
	if p.AlphaMin <= 0 || p.AlphaSpan < 0 || p.AlphaMin+p.AlphaSpan > 1 {
		errs = append(errs, fmt.Errorf("particle alpha range [%v, %v) must lie in (0, 1]", p.AlphaMin, p.AlphaMin+p.AlphaSpan))
	}
	if p.PrimaryHueChance < 0 || p.PrimaryHueChance > 1 {
		errs = append(errs, fmt.Errorf("primary_hue_chance must be in [0, 1], got %v", p.PrimaryHueChance))
	}
	if p.Saturation < 0 || p.Saturation > 1 || p.Lightness < 0 || p.Lightness > 1 {
		errs = append(errs, errors.New("saturation and lightness must be in [0, 1]"))
	}
	if p.ResizeDebounce < 0 {
		errs = append(errs, fmt.Errorf("resize_debounce must not be negative, got %v", p.ResizeDebounce))
	}

	return errors.Join(errs...)
}

// ParseColor parses a #rrggbb string into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
