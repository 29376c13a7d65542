package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/solat/internal/api"
	"github.com/smokyabdulrahman/solat/internal/cache"
	"github.com/smokyabdulrahman/solat/internal/config"
	"github.com/smokyabdulrahman/solat/internal/logging"
	"github.com/smokyabdulrahman/solat/internal/zone"
)

// Global flags shared across all subcommands.
var (
	FlagZone       string
	FlagCacheDir   string
	FlagConfig     string
	FlagTimezone   string
	FlagTimeFormat string
	FlagMute       bool
	FlagTray       bool
	FlagLogLevel   string
	FlagAPIURL     string
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the solat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solat",
		Short: "Malaysian prayer times countdown and notifier",
		Long: "A prayer-times countdown for JAKIM zones powered by the waktusolat.app API.\n" +
			"Run without a subcommand to start the live countdown with desktop reminders.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(configPath())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg

			level := cfg.LogLevel
			if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
				level = FlagLogLevel
			}
			return logging.Setup(logging.Console(cmd.ErrOrStderr()), level)
		},
		// Default action: the live countdown.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, version)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagZone, "zone", "", "JAKIM zone code, e.g. KTN01 (overrides the cached zone and config)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/solat/)")
	pf.StringVar(&FlagConfig, "config", "", "Config file (default: ~/.config/solat/config.toml)")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone for display (default: Asia/Kuala_Lumpur)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVar(&FlagMute, "mute", false, "Start with notifications muted")
	pf.BoolVar(&FlagTray, "tray", false, "Show a system tray icon")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&FlagAPIURL, "api-url", "", "Prayer times API base URL")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newTodayCmd())
	rootCmd.AddCommand(newZonesCmd())
	rootCmd.AddCommand(newZoneCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("solat %s\n", version)
}

// configPath returns the --config flag value or the default config location.
func configPath() string {
	if FlagConfig != "" {
		return FlagConfig
	}
	p, err := config.Path()
	if err != nil {
		return "config.toml"
	}
	return p
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	merged := config.Config{}
	if loadedConfig != nil {
		merged = *loadedConfig
	}
	cfg := &merged

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	if flagWasSet(flags, root, "zone") {
		cfg.Zone = api.NormalizeZone(FlagZone)
	}
	if flagWasSet(flags, root, "cache-dir") {
		cfg.CacheDir = FlagCacheDir
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	} else if cfg.Timezone == "" {
		cfg.Timezone = defaults.Timezone
	}
	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if flagWasSet(flags, root, "mute") {
		cfg.Muted = &FlagMute
	} else if cfg.Muted == nil {
		cfg.Muted = defaults.Muted
	}
	if flagWasSet(flags, root, "tray") {
		cfg.Tray = &FlagTray
	} else if cfg.Tray == nil {
		cfg.Tray = defaults.Tray
	}
	if flagWasSet(flags, root, "api-url") {
		cfg.APIBaseURL = FlagAPIURL
	}
	if flagWasSet(flags, root, "log-level") {
		cfg.LogLevel = FlagLogLevel
	} else if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// session bundles what every data-reading command needs.
type session struct {
	cfg    *config.Config
	cache  *cache.Cache
	client *api.Client
	loc    *time.Location
	zone   string
}

// newSession resolves the merged config, cache, API client and zone.
// Zone priority: --zone flag > cached zone > config > default.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg := effectiveConfig(cmd)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	client := api.NewClient()
	if cfg.APIBaseURL != "" {
		client.BaseURL = cfg.APIBaseURL
	}

	s := &session{cfg: cfg, cache: c, client: client, loc: loc}

	switch {
	case flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "zone"):
		s.zone = api.NormalizeZone(FlagZone)
	case c.CachedZone() != "":
		s.zone = c.CachedZone()
	case cfg.Zone != "":
		s.zone = api.NormalizeZone(cfg.Zone)
	default:
		s.zone = config.DefaultZone
	}

	if !zone.IsCode(s.zone) {
		return nil, fmt.Errorf("%w: %q is not a zone code", zone.ErrNotFound, s.zone)
	}

	log.Debug().Str("zone", s.zone).Str("cache", c.Dir()).Str("api", client.BaseURL).Msg("session ready")
	return s, nil
}

// schedule loads the month schedule for the session zone through the cache.
func (s *session) schedule(ctx context.Context, now time.Time) (*api.Schedule, error) {
	return s.cache.Load(ctx, s.client, s.zone, now)
}

// catalog loads the zone catalog. A failure yields an empty catalog, which
// still accepts well-formed zone codes.
func (s *session) catalog(ctx context.Context) *zone.Catalog {
	zones, err := s.cache.LoadZones(ctx, s.client)
	if err != nil {
		log.Warn().Err(err).Msg("zone catalog unavailable")
		return zone.NewCatalog(nil)
	}
	return zone.NewCatalog(zones)
}

// timeLayout returns the Go layout for prayer times.
func (s *session) timeLayout() string {
	if s.cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
