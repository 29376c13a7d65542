package cli

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/solat/internal/logging"
	"github.com/smokyabdulrahman/solat/internal/notify"
	"github.com/smokyabdulrahman/solat/internal/tracker"
	"github.com/smokyabdulrahman/solat/internal/tray"
	"github.com/smokyabdulrahman/solat/internal/ui"
)

// runUI starts the live countdown. Logs move to the cache directory because
// the terminal belongs to the UI.
func runUI(cmd *cobra.Command, version string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	f, err := logging.OpenFile(s.cache.Dir())
	if err != nil {
		return err
	}
	defer f.Close()
	if err := logging.Setup(f, s.cfg.LogLevel); err != nil {
		return err
	}

	ctx := cmd.Context()
	now := time.Now().In(s.loc)

	// A failed initial load leaves the tracker empty; the UI retries.
	sched, err := s.schedule(ctx, now)
	if err != nil {
		log.Warn().Err(err).Str("zone", s.zone).Msg("starting without prayer times")
	}

	tr := tracker.New(sched, now, s.loc)
	tr.SetMuted(s.cfg.MutedOrDefault(false))

	log.Info().Str("zone", s.zone).Bool("muted", tr.Muted()).Str("version", version).Msg("starting solat")

	return ui.Run(ui.Options{
		Context:    ctx,
		Tracker:    tr,
		Cache:      s.cache,
		Fetcher:    s.client,
		Catalog:    s.catalog(ctx),
		Notifier:   notify.NewDesktop("Solat", tray.Icon()),
		Config:     loadedConfig,
		ConfigPath: configPath(),
		Zone:       s.zone,
		TimeFormat: s.timeLayout(),
		Tray:       s.cfg.TrayOrDefault(false),
		Version:    version,
		APIURL:     s.client.BaseURL,
	})
}
