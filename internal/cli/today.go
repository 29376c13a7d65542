package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/solat/internal/display"
	"github.com/smokyabdulrahman/solat/internal/prayer"
	"github.com/smokyabdulrahman/solat/internal/tracker"
)

var flagJSON bool

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer times",
		Long:  "Display the day's prayer times with the next prayer highlighted.\nAfter isha the next day's times are shown.",
		RunE:  runToday,
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")

	return cmd
}

func runToday(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	now := time.Now().In(s.loc)
	sched, err := s.schedule(ctx, now)
	if err != nil {
		return err
	}

	f := tracker.New(sched, now, s.loc).Tick(now)
	zoneStr := s.catalog(ctx).Describe(s.zone)

	if flagJSON {
		return printTodayJSON(cmd.OutOrStdout(), f, s.zone, s.timeLayout())
	}

	printTodayRich(cmd.OutOrStdout(), f, zoneStr, s.loc.String(), s.timeLayout())
	return nil
}

// printTodayRich renders the colored terminal output for the displayed day.
func printTodayRich(w io.Writer, f tracker.Frame, zoneStr, tz, layout string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", zoneStr)
	fmt.Fprintf(w, "  %s  %s\n", f.Now.Format("Mon, 02 Jan 2006"), display.Gray(tz))
	if f.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", display.Gray("Hijri "+f.Hijri))
	}
	fmt.Fprintln(w)

	if len(f.Prayers) == 0 {
		fmt.Fprintf(w, "  %s\n\n", display.Yellow(f.Text))
		return
	}

	day := display.PrayerDay{
		Heading:   f.Heading,
		Prayers:   f.Prayers,
		Syuruk:    f.Syuruk,
		Remaining: f.Remaining,
		Now:       f.Now,
	}
	if f.HasNext {
		day.NextKey = f.Next.Key
	}
	t := display.PrayerTable(day, layout)
	fmt.Fprint(w, t.Render())
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n\n", display.Accent(f.Text))
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	Zone    string            `json:"zone"`
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri,omitempty"`
	Heading string            `json:"heading,omitempty"`
	Timings map[string]string `json:"timings"`
	Syuruk  string            `json:"syuruk,omitempty"`
	Next    *todayJSONNext    `json:"next"`
	Status  string            `json:"status"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Unix      int64  `json:"unix"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, f tracker.Frame, zoneCode, layout string) error {
	out := todayJSON{
		Zone:    zoneCode,
		Date:    f.Now.Format("2006-01-02"),
		Hijri:   f.Hijri,
		Heading: f.Heading,
		Timings: make(map[string]string, len(f.Prayers)),
		Status:  f.Text,
	}
	for _, p := range f.Prayers {
		out.Timings[p.Key] = p.Time.Format(layout)
	}
	if !f.Syuruk.IsZero() {
		out.Syuruk = f.Syuruk.Format(layout)
	}
	if f.HasNext {
		out.Next = &todayJSONNext{
			Prayer:    f.Next.Key,
			Time:      f.Next.Time.Format(layout),
			Unix:      f.Next.Unix(),
			Remaining: prayer.FormatCountdown(f.Remaining),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
