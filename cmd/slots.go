package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prepsched/prepsched/app"
	"github.com/prepsched/prepsched/config"
	"github.com/prepsched/prepsched/core/model"
	"github.com/prepsched/prepsched/infra/calendar"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the free slots without allocating",
	RunE:  runSlots,
}

func init() {
	slotsCmd.Flags().StringVar(&eventFlag, "event", "", "event start time (RFC 3339)")
	slotsCmd.Flags().StringVar(&intervalsFlag, "intervals", "", "JSON file with busy intervals")
	slotsCmd.Flags().BoolVar(&googleFlag, "google", false, "fetch busy intervals from Google Calendar")
	_ = slotsCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eventStart, err := time.Parse(time.RFC3339, eventFlag)
	if err != nil {
		return fmt.Errorf("parse event time: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var busy []model.TimeInterval
	if intervalsFlag != "" {
		busy, err = app.LoadIntervalsFile(intervalsFlag)
		if err != nil {
			return fmt.Errorf("load intervals: %w", err)
		}
	} else if googleFlag {
		src, err := calendar.NewGoogleSource(ctx, cfg.Calendar)
		if err != nil {
			return err
		}
		svc.SetSource(src)
	} else {
		busy = []model.TimeInterval{}
	}

	slots, err := svc.FreeSlots(ctx, eventStart, busy)
	if err != nil {
		return err
	}
	for _, s := range slots {
		cmd.Printf("%s  %s - %s  (%.1fh)\n",
			s.Day.Format("Mon Jan 02"),
			s.Start.Format("15:04"), s.End.Format("15:04"),
			model.DurationToHours(s.Duration()))
	}
	return nil
}
