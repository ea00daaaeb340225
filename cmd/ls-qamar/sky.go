package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/calendar"
	"github.com/litescript/ls-qamar/internal/content"
	"github.com/litescript/ls-qamar/internal/sky"
)

var (
	skySummary bool
	skyJSON    bool
	skyNow     bool
	skyWatch   time.Duration

	calendarMonth string

	sitesByDistance bool
	sitesJSON       bool
)

var skyCmd = &cobra.Command{
	Use:   "sky",
	Short: "Print the moon, qibla and prayer report without the TUI",
	Long: `Prints the report for the configured place. By default a text summary;
--json exports the full report, --now prints a single status line, and
--summary adds the summary to either.
--watch repeats the output at the given interval until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		once := func() error {
			r, err := a.compute(a.clock())
			if err != nil {
				return err
			}
			if skyJSON {
				if err := sky.Export(r).WriteJSON(out); err != nil {
					return err
				}
			}
			if skyNow {
				sky.WriteNow(out, r)
			}
			if skySummary || (!skyJSON && !skyNow) {
				sky.WriteSummary(out, r)
			}
			return nil
		}

		if err := once(); err != nil || skyWatch <= 0 {
			return err
		}

		ticker := time.NewTicker(max(skyWatch, time.Second))
		defer ticker.Stop()
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case <-ticker.C:
				if !skyNow && !skyJSON {
					fmt.Fprintln(out)
				}
				if err := once(); err != nil {
					a.log.Error("compute failed: %v", err)
				}
			}
		}
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a Gregorian month with hijri dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		today := a.clock().In(a.place.Location)
		month := calendar.MonthOf(today)
		if calendarMonth != "" {
			t, err := time.Parse("2006-01", calendarMonth)
			if err != nil {
				return fmt.Errorf("--month %q: want YYYY-MM: %w", calendarMonth, astro.ErrInvalidInput)
			}
			month = calendar.MonthOf(t)
		}
		writeCalendar(cmd.OutOrStdout(), calendar.MonthGrid(month, today))
		return nil
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the historical sites with bearing and distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		views, err := content.SitesFrom(a.place.Coord)
		if err != nil {
			return err
		}
		if sitesByDistance {
			views = content.ByDistance(views)
		}
		out := cmd.OutOrStdout()
		if sitesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		for _, v := range views {
			fmt.Fprintf(out, "%-34s %-20s %3d° %-4s %7.0f km\n", v.Name, v.Category, v.Bearing, v.Cardinal, v.DistanceKm)
		}
		return nil
	},
}

func init() {
	skyCmd.Flags().BoolVar(&skySummary, "summary", false, "text summary (the default when no other output is chosen)")
	skyCmd.Flags().BoolVar(&skyJSON, "json", false, "export the report as JSON")
	skyCmd.Flags().BoolVar(&skyNow, "now", false, "single status line")
	skyCmd.Flags().DurationVar(&skyWatch, "watch", 0, "repeat at this interval (e.g. 1m)")

	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "month to show (YYYY-MM), default current")

	sitesCmd.Flags().BoolVar(&sitesByDistance, "nearest", false, "sort by distance, nearest first")
	sitesCmd.Flags().BoolVar(&sitesJSON, "json", false, "print JSON")
}

func writeCalendar(w io.Writer, g calendar.Grid) {
	fmt.Fprintf(w, "%s\n", g.Month)
	var head []string
	for _, d := range calendar.Weekdays {
		head = append(head, fmt.Sprintf("%-8s", d))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(head, ""), " "))

	for _, week := range g.Weeks {
		var line strings.Builder
		for _, c := range week {
			switch {
			case c.Blank:
				line.WriteString(strings.Repeat(" ", 8))
			case c.IsToday:
				fmt.Fprintf(&line, "[%2d]%-4d", c.Day, c.Hijri.Day)
			default:
				fmt.Fprintf(&line, " %2d %-4d", c.Day, c.Hijri.Day)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	if len(g.Weeks) > 0 {
		first, last := firstLast(g)
		fmt.Fprintf(w, "%s – %s\n", first.Hijri, last.Hijri)
	}
}

func firstLast(g calendar.Grid) (calendar.Cell, calendar.Cell) {
	var first, last calendar.Cell
	for _, week := range g.Weeks {
		for _, c := range week {
			if c.Blank {
				continue
			}
			if first.Day == 0 {
				first = c
			}
			last = c
		}
	}
	return first, last
}
