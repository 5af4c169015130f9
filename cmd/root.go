package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cardlens/internal/card"
	"cardlens/internal/compositor"
	"cardlens/internal/config"
	"cardlens/internal/lifecycle"
	"cardlens/internal/log"
	"cardlens/internal/media"
	"cardlens/internal/overlay"
	"cardlens/internal/scene"
	"cardlens/internal/tracing"
	"cardlens/internal/tracking"
	"cardlens/internal/ui"
	"cardlens/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "cardlens",
	Short:   "A viewer for AR business card overlays",
	Long:    `Loads a business card configuration, resolves a card id and drives the overlay lifecycle (scan, track, lose) against a terminal scene renderer with simulated tracking.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/cardlens/config.yaml)")
	rootCmd.Flags().String("card", "",
		"card id to display (default: the configured default card)")
	rootCmd.Flags().String("source", "",
		"card config source: a file path or an http(s) URL")
	rootCmd.Flags().Bool("watch", false,
		"reload the card config when the source file changes")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging and the log overlay (ctrl+x)")

	_ = viper.BindPFlag("card", rootCmd.Flags().Lookup("card"))
	_ = viper.BindPFlag("source", rootCmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("source", defaults.Source)
	viper.SetDefault("default_card", defaults.DefaultCard)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("theme.highlight", defaults.Theme.Highlight)
	viper.SetDefault("theme.subtle", defaults.Theme.Subtle)
	viper.SetDefault("theme.error", defaults.Theme.Error)
	viper.SetDefault("theme.success", defaults.Theme.Success)
	viper.SetDefault("compositor.enabled", defaults.Compositor.Enabled)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .cardlens/config.yaml (current directory)
		// 2. ~/.config/cardlens/config.yaml (user config)
		if _, err := os.Stat(".cardlens/config.yaml"); err == nil {
			viper.SetConfigFile(".cardlens/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "cardlens"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .cardlens/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".cardlens/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug || os.Getenv("CARDLENS_DEBUG") != "" {
		cleanup, err := log.Init("cardlens-debug.log")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		debug = true
	}

	tracer, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = tracer.Shutdown(shutdownCtx)
		cancel()
	}()

	// Load the card config. A source that cannot be loaded at all is fatal;
	// so is a config with no entry for the default card.
	cardCfg, err := card.Load(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("loading card config from %q: %w", cfg.Source, err)
	}
	resolver, err := card.NewResolver(cardCfg, cfg.DefaultCard)
	if err != nil {
		return err
	}
	resolution := resolver.Resolve(cfg.Card)

	// Assemble the engine around the text renderer.
	renderer := scene.NewTextRenderer()
	registry := media.NewRegistry()
	factory := overlay.NewFactory(registry, &overlay.StubLoader{}, overlay.Options{})
	ctrl := lifecycle.New(lifecycle.Config{
		Factory:    factory,
		Renderer:   renderer,
		Compositor: compositor.New(renderer, cfg.Compositor.Enabled),
		Scheduler:  lifecycle.TimerScheduler{},
	})
	tracker := tracking.NewSim()
	ctrl.AttachTracker(tracker)
	ctrl.LoadCard(ctx, resolution.Definition.Layers)

	// Watch mode only makes sense for file sources.
	var watcherHandle *watcher.Watcher
	if cfg.Watch {
		if w, watchErr := watcher.New(watcher.DefaultConfig(cfg.Source)); watchErr == nil {
			if startErr := w.Start(); startErr == nil {
				watcherHandle = w
			} else {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "watch mode unavailable", "error", startErr)
			}
		} else {
			log.Warn(log.CatWatcher, "watch mode unavailable", "error", watchErr)
		}
	}

	zone.NewGlobal()
	model := ui.New(ui.Config{
		Controller: ctrl,
		Renderer:   renderer,
		Tracker:    tracker,
		Resolution: resolution,
		Source:     cfg.Source,
		AppConfig:  cfg,
		Watcher:    watcherHandle,
		Debug:      debug,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
