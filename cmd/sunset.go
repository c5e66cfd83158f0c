package main

import (
	"context"
	"fmt"
	"time"

	"sunset_relay/internal/models"
	"sunset_relay/internal/scheduler"

	"github.com/spf13/cobra"
)

var (
	probeLat   float64
	probeLng   float64
	probeDelay int
)

var sunsetCmd = &cobra.Command{
	Use:   "sunset",
	Short: "Fetch today's sunset and print the trigger time",
	Example: `  sunset-relay sunset --lat 41.6764 --lng -86.2520 --delay 30
  SUNSET_RELAY_SUNSET_SOURCE=local sunset-relay sunset --lat 41.6764 --lng -86.2520`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loc := scheduler.FixedZone(cfg.Scheduler.ZoneLabel, cfg.Scheduler.UTCOffsetSeconds)
		clk := newClock(cfg)

		fetcher, err := newFetcher(cfg, clk, loc)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sunset.Timeout+time.Second)
		defer cancel()

		raw, err := fetcher.Fetch(ctx, probeLat, probeLng)
		if err != nil {
			return fmt.Errorf("fetch sunset: %w", err)
		}
		trigger, err := scheduler.ComputeTrigger(raw, probeDelay, loc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sunset:   %s\n", raw)
		fmt.Fprintf(out, "relay on: %s (sunset + %d min)\n", trigger.Format("2006-01-02 15:04:05 MST"), models.ClampDelay(probeDelay))
		return nil
	},
}

func init() {
	sunsetCmd.Flags().Float64Var(&probeLat, "lat", 0, "latitude in decimal degrees")
	sunsetCmd.Flags().Float64Var(&probeLng, "lng", 0, "longitude in decimal degrees")
	sunsetCmd.Flags().IntVar(&probeDelay, "delay", 0, "minutes after sunset (0-240)")
	_ = sunsetCmd.MarkFlagRequired("lat")
	_ = sunsetCmd.MarkFlagRequired("lng")
}
