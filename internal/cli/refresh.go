package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch the current zone's schedule",
		Long:  "Fetch this month's schedule for the active zone and overwrite the cache.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			sched, err := s.cache.Refresh(cmd.Context(), s.client, s.zone)
			if err != nil {
				return fmt.Errorf("refresh %s: %w", s.zone, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d days for %s (%s %d)\n",
				len(sched.Prayers), s.zone, sched.Month, sched.Year)
			return nil
		},
	}
}
