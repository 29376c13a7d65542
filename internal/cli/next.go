package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/solat/internal/prayer"
	"github.com/smokyabdulrahman/solat/internal/tracker"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Print a single countdown line for the next prayer, suitable for status bars.\n" +
			"After isha the countdown continues to the next day's fajr.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatModeCountdown,
		"Display format: "+strings.Join(prayer.Formats, ", ")+", or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	now := time.Now().In(s.loc)
	sched, err := s.schedule(cmd.Context(), now)
	if err != nil {
		return err
	}

	f := tracker.New(sched, now, s.loc).Tick(now)
	if f.Status != tracker.StatusCountdown {
		fmt.Fprint(cmd.OutOrStdout(), f.Text)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatOutput(f.Next, now, flagFormat, s.timeLayout(), s.zone))
	return nil
}
