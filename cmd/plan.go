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
	"github.com/prepsched/prepsched/infra/logger"
	"github.com/prepsched/prepsched/infra/metrics"
)

var (
	eventFlag     string
	intervalsFlag string
	googleFlag    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a prep schedule for an upcoming event",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&eventFlag, "event", "", "event start time (RFC 3339)")
	planCmd.Flags().StringVar(&intervalsFlag, "intervals", "", "JSON file with busy intervals")
	planCmd.Flags().BoolVar(&googleFlag, "google", false, "fetch busy intervals from Google Calendar")
	_ = planCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusPort); err != nil {
				logger.New("main").Errorf("prom server: %v", err)
			}
		}()
	}

	var busy []model.TimeInterval
	switch {
	case intervalsFlag != "":
		busy, err = app.LoadIntervalsFile(intervalsFlag)
		if err != nil {
			return fmt.Errorf("load intervals: %w", err)
		}
	case googleFlag:
		src, err := calendar.NewGoogleSource(ctx, cfg.Calendar)
		if err != nil {
			return err
		}
		svc.SetSource(src)
	default:
		busy = []model.TimeInterval{}
	}

	res, err := svc.PlanForEvent(ctx, eventStart, busy)
	if err != nil {
		return err
	}
	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res model.ScheduleResult) {
	cmd.Printf("strategy: %s\n", res.Strategy)
	cmd.Printf("allocated: %.1fh  deficit: %.1fh  feasible: %t\n",
		res.AllocatedHours, res.DeficitHours, res.Feasible)
	for _, b := range res.Blocks {
		cmd.Printf("  %s  %s - %s  (%.1fh)\n",
			b.Day.Format("Mon Jan 02"),
			b.Start.Format("15:04"), b.End.Format("15:04"),
			model.DurationToHours(b.Duration()))
	}
	for _, v := range res.Violations {
		cmd.Printf("violation %s\n", v)
	}
}
