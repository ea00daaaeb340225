// Command ls-qamar shows the moon, the qibla and the prayer times in the
// terminal, and serves them as a JSON API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/config"
	"github.com/litescript/ls-qamar/internal/logging"
	"github.com/litescript/ls-qamar/internal/sky"
	"github.com/litescript/ls-qamar/internal/version"
)

// Global flags
var (
	configPath string
	logLevel   string
	placeName  string
	latFlag    float64
	lonFlag    float64
	tzFlag     string
	dateFlag   string
)

// app is what every subcommand needs after flags and config are resolved.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	place  sky.Place
	target astro.GeoCoordinate

	// clock is the wall clock, shifted when --date is given.
	clock func() time.Time
}

var rootCmd = &cobra.Command{
	Use:   "ls-qamar",
	Short: "Moon phase, qibla and prayer times in your terminal",
	Long: `ls-qamar computes the moon phase and illumination, the qibla bearing and the
daily prayer schedule for a place on Earth.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		return runTUI(cmd.Context(), a)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath(), "config file (YAML)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&placeName, "place", "", "name shown for the observer location")
	pf.Float64Var(&latFlag, "lat", 0, "observer latitude in degrees")
	pf.Float64Var(&lonFlag, "lon", 0, "observer longitude in degrees")
	pf.StringVar(&tzFlag, "tz", "", "IANA time zone of the observer, e.g. Africa/Dakar")
	pf.StringVar(&dateFlag, "date", "", "compute for this instant (RFC3339 or YYYY-MM-DD) instead of now")

	rootCmd.AddCommand(skyCmd, calendarCmd, sitesCmd, serveCmd,
		loginCmd, signupCmd, logoutCmd, whoamiCmd, versionCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config, applies the command-line overrides and builds
// the logger writing to stderr.
func setup(cmd *cobra.Command) (*app, error) {
	return setupWithLog(cmd, os.Stderr)
}

func setupWithLog(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("place") {
		cfg.Place.Name = placeName
	}
	if flags.Changed("lat") != flags.Changed("lon") {
		return nil, fmt.Errorf("--lat and --lon must be given together: %w", astro.ErrInvalidInput)
	}
	if flags.Changed("lat") {
		cfg.Place.Lat, cfg.Place.Lon = latFlag, lonFlag
		if !flags.Changed("place") {
			cfg.Place.Name = astro.GeoCoordinate{Latitude: latFlag, Longitude: lonFlag}.String()
		}
	}
	if flags.Changed("tz") {
		cfg.Place.TimeZone = tzFlag
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{
		cfg:    cfg,
		place:  cfg.SkyPlace(),
		target: cfg.TargetCoord(),
		clock:  time.Now,
	}

	level := logging.ParseLevel(cfg.Logging.Level)
	if cfg.Logging.Format == "json" {
		a.log = logging.NewJSON(level, logOut)
	} else {
		a.log = logging.New(level)
		a.log.SetOutput(logOut)
	}

	if dateFlag != "" {
		at, err := astro.ParseTimestamp(dateFlag, a.place.Location)
		if err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
		// The clock starts at --date and keeps running from there.
		started := time.Now()
		a.clock = func() time.Time { return at.Add(time.Since(started)) }
	}
	return a, nil
}

// compute is the state.ComputeFunc for the configured place.
func (a *app) compute(now time.Time) (*sky.Report, error) {
	return sky.Compute(now, a.place, a.target)
}
