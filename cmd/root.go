package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/game"
	"github.com/iburimskiy/particle-field/internal/observability"
)

// runGame is swapped out in tests.
var runGame = func(cfg *config.Config, logger *zap.Logger) error {
	g, err := game.NewGame(*cfg, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(cfg.Window.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	logger.Info("Window closed.")
	return nil
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "particle-field",
		Short:         "Animated particle background with proximity lines.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()

			logger := observability.GetLogger()
			logger.Info("Starting particle-field", zap.String("version", Version))
			return runGame(cfg, logger)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./particles.yaml)")
	flags.Int("width", config.WindowWidth, "initial window width")
	flags.Int("height", config.WindowHeight, "initial window height")
	flags.Uint64("seed", 0, "random seed for particle placement (0 picks one)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("stats", false, "show the stats overlay on start")

	for key, flag := range map[string]string{
		"window.width":      "width",
		"window.height":     "height",
		"particles.seed":    "seed",
		"logger.level":      "log-level",
		"window.show_stats": "stats",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig layers defaults, the config file, PARTICLES_* env vars and
// flags, in increasing priority.
func loadConfig(v *viper.Viper, cfgFile string) (*config.Config, error) {
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("particles")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PARTICLES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return config.Load(v)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "particle-field:", err)
		os.Exit(1)
	}
}
