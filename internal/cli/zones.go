package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/solat/internal/display"
	"github.com/smokyabdulrahman/solat/internal/geo"
	"github.com/smokyabdulrahman/solat/internal/zone"
)

var (
	flagState    string
	flagDistrict string
	flagApply    bool
)

func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones [state]",
		Short: "List JAKIM zones",
		Long:  "List the zone catalog, optionally filtered by state.\nThe catalog is fetched once and cached as zones.json.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runZones,
	}
}

func runZones(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	zones, err := s.cache.LoadZones(cmd.Context(), s.client)
	if err != nil {
		return err
	}
	c := zone.NewCatalog(zones)

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		list := c.InState(args[0])
		if len(list) == 0 {
			return fmt.Errorf("%w: no zones in state %q (states: %s)", zone.ErrNotFound, args[0], strings.Join(c.States(), ", "))
		}
		zones = list
	}

	t := display.NewTable("Code", "State", "District")
	for _, z := range zones {
		kind := display.RowPlain
		if z.JakimCode == s.zone {
			kind = display.RowHighlight
		}
		t.Add(kind, z.JakimCode, z.Negeri, z.Daerah)
	}
	fmt.Fprint(w, t.Render())
	return nil
}

func newZoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Show or change the prayer zone",
		Long:  "Print the active zone, or use subcommands to change it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.catalog(cmd.Context()).Describe(s.zone))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set [code]",
		Short: "Change the zone",
		Long: "Change the zone by code or by state and district. The month's schedule is\n" +
			"fetched immediately; nothing changes when the fetch fails.\n\n" +
			"Examples:\n  solat zone set SGR01\n  solat zone set --state Kelantan --district Bachok",
		Args: cobra.MaximumNArgs(1),
		RunE: runZoneSet,
	}
	set.Flags().StringVar(&flagState, "state", "", "State (negeri), e.g. Kelantan")
	set.Flags().StringVar(&flagDistrict, "district", "", "District (daerah), e.g. Bachok")

	detect := &cobra.Command{
		Use:   "detect",
		Short: "Suggest a zone from your IP address",
		RunE:  runZoneDetect,
	}
	detect.Flags().BoolVar(&flagApply, "apply", false, "Switch to the suggested zone")

	cmd.AddCommand(set, detect)
	return cmd
}

func runZoneSet(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	state, district := flagState, flagDistrict
	switch {
	case len(args) == 1 && (state != "" || district != ""):
		return errors.New("give either a zone code or --state/--district, not both")
	case len(args) == 1:
		state, district = args[0], ""
	case state == "" || district == "":
		return errors.New("a zone code or both --state and --district are required")
	}

	c := s.catalog(cmd.Context())
	code, err := c.Resolve(state, district)
	if err != nil {
		return err
	}
	return changeZone(cmd, s, c, code)
}

func runZoneDetect(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	match, loc, err := geo.SuggestZone(cmd.Context(), s.client)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if loc.City != "" {
		fmt.Fprintf(w, "Detected location: %s, %s\n", loc.City, loc.Country)
	}
	fmt.Fprintf(w, "Suggested zone: %s (%s: %s)\n", match.Zone, match.Negeri, match.Daerah)

	if !flagApply {
		fmt.Fprintf(w, "Run 'solat zone set %s' to use it.\n", match.Zone)
		return nil
	}
	return changeZone(cmd, s, s.catalog(cmd.Context()), match.Zone)
}

// changeZone fetches code's schedule, replacing the cache, and records the
// zone in the config file. A failed fetch changes nothing.
func changeZone(cmd *cobra.Command, s *session, c *zone.Catalog, code string) error {
	sched, err := s.cache.Refresh(cmd.Context(), s.client, code)
	if err != nil {
		return fmt.Errorf("zone %s: %w", code, err)
	}

	if loadedConfig != nil {
		loadedConfig.Zone = code
		if err := loadedConfig.SaveTo(configPath()); err != nil {
			log.Warn().Err(err).Msg("could not save zone to config")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Zone set to %s: %d days for %s %d\n",
		c.Describe(code), len(sched.Prayers), sched.Month, sched.Year)
	return nil
}
