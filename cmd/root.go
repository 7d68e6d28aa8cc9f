package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"giftwell/internal/app"
	"giftwell/internal/config"
	"giftwell/internal/infrastructure/sqlite"
	"giftwell/internal/log"
	"giftwell/internal/registry"
	"giftwell/internal/tracing"
	"giftwell/internal/ui/styles"
	"giftwell/internal/watcher"
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
	debug   bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "giftwell",
	Short:   "A terminal ui for gift registries",
	Long:    `A terminal user interface for managing a gift registry: track wanted items, mark purchases, and collect picks into a cart.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/giftwell/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to ~/.config/giftwell/debug.log")
	rootCmd.Flags().String("db", "",
		"path to the registry database")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic reload when the database changes")

	// Bind flags to viper
	_ = viper.BindPFlag("db_path", rootCmd.Flags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("refresh_debounce", defaults.RefreshDebounce)
	viper.SetDefault("seed", defaults.Seed)
	viper.SetDefault("ui.show_summary", defaults.UI.ShowSummary)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.currency", defaults.UI.Currency)
	viper.SetDefault("theme.mode", defaults.Theme.Mode)
	viper.SetDefault("theme.accent", defaults.Theme.Accent)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .giftwell/config.yaml (current directory)
		// 2. ~/.config/giftwell/config.yaml (user config)
		if _, err := os.Stat(".giftwell/config.yaml"); err == nil {
			viper.SetConfigFile(".giftwell/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "giftwell"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create a default user config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "giftwell", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debug || os.Getenv("GIFTWELL_DEBUG") != "" {
		home, _ := os.UserHomeDir()
		logPath := filepath.Join(home, ".config", "giftwell", "debug.log")
		closeLog, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer closeLog()
		log.SetMinLevel(log.LevelDebug)
	}

	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	db, err := sqlite.NewDBWithTracer(dbPath, provider.Tracer())
	if err != nil {
		return fmt.Errorf("opening registry database: %w", err)
	}

	ctx := context.Background()
	collection := registry.NewCollection("registry", db.ItemStore())
	collection.Load(ctx)

	if cfg.Seed && collection.Len() == 0 {
		seedRegistry(collection)
	}

	styles.ForceMode(cfg.Theme.Mode)
	styles.ApplyTheme(cfg.Theme.Accent, "", "", "")

	var w *watcher.Watcher
	if cfg.AutoRefresh {
		w, err = watcher.New(watcher.Config{
			DBPath:      dbPath,
			DebounceDur: cfg.RefreshDebounce,
		})
		if err != nil {
			log.ErrorErr(log.CatWatcher, "watcher setup failed, auto-refresh disabled", err)
			w = nil
		}
	}

	model := app.New(cfg, collection, w)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if dbErr := db.Close(); dbErr != nil && err == nil {
		err = dbErr
	}
	if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// tracingConfig maps the file config onto the tracing subsystem's own
// config type.
func tracingConfig(cfg config.Config) tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = cfg.Tracing.Enabled
	if cfg.Tracing.Exporter != "" {
		out.Exporter = cfg.Tracing.Exporter
	}
	out.FilePath = cfg.Tracing.FilePath
	if out.FilePath == "" {
		out.FilePath = config.DefaultTracesFilePath()
	}
	if cfg.Tracing.OTLPEndpoint != "" {
		out.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	}
	if cfg.Tracing.SampleRate > 0 {
		out.SampleRate = cfg.Tracing.SampleRate
	}
	return out
}

// seedRegistry fills an empty registry with a starter wishlist so the
// first launch has something to show.
func seedRegistry(c *registry.Collection) {
	starters := []registry.Patch{
		{
			Title:       registry.String("Green Dishes"),
			Description: registry.String("A set of eight dinner plates in a sage green glaze."),
			Price:       registry.Float(25.95),
		},
		{
			Title:       registry.String("Curtains"),
			Description: registry.String("Blackout curtains, two panels, 84 inch."),
			Price:       registry.Float(99.99),
		},
		{
			Title:       registry.String("20 Piece Flatware Set"),
			Description: registry.String("Service for four in brushed stainless steel."),
			Price:       registry.Float(29.99),
		},
		{
			Title:       registry.String("Red Toolbox"),
			Description: registry.String("Steel toolbox with a removable tray."),
			Price:       registry.Float(49.99),
		},
	}
	for _, p := range starters {
		if _, err := c.Create(p); err != nil {
			log.ErrorErr(log.CatRegistry, "seeding starter item failed", err)
		}
	}
	c.Flush()
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
