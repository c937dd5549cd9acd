// Package app wires the planning pipeline from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prepsched/prepsched/config"
	"github.com/prepsched/prepsched/core/freetime"
	"github.com/prepsched/prepsched/core/interval"
	coremetrics "github.com/prepsched/prepsched/core/metrics"
	"github.com/prepsched/prepsched/core/model"
	"github.com/prepsched/prepsched/core/plan"
	"github.com/prepsched/prepsched/infra/logger"
	"github.com/prepsched/prepsched/infra/metrics"
	"github.com/prepsched/prepsched/infra/store"
	"github.com/prepsched/prepsched/internal/eventbus"
)

// IntervalSource supplies raw busy intervals for a time range. The
// Google Calendar implementation lives in infra/calendar.
type IntervalSource interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]model.TimeInterval, error)
}

// Service orchestrates the plan manager and its collaborators.
type Service struct {
	Manager *plan.PlanManager
	Source  IntervalSource

	cfg *config.Config
	bus *eventbus.Bus[any]
	log logger.Logger
}

// New creates a Service from the configuration. No calendar source is
// attached by default; callers inject one with SetSource when planning
// against live calendars.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var planStore plan.Store
	if cfg.Store.Backend == "sqlite" {
		st, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("plan store: %w", err)
		}
		planStore = st
	}

	bus := eventbus.New[any]()
	lpAlloc := plan.NewLPAllocator(plan.SimplexSolver{})
	lpAlloc.TimeLimit = cfg.Planner.TimeLimit()
	manager := plan.NewPlanManager(plan.NewGreedyAllocator(), lpAlloc, sink, bus, planStore, logg)
	manager.SetLPFirst(cfg.Planner.LPFirst)

	return &Service{Manager: manager, cfg: cfg, bus: bus, log: logg}, nil
}

// SetSource attaches a busy-interval source.
func (s *Service) SetSource(src IntervalSource) { s.Source = src }

// PlanForEvent computes a prep schedule for an event starting at
// eventStart. When busy is nil the configured interval source is
// consulted over the planning horizon.
func (s *Service) PlanForEvent(ctx context.Context, eventStart time.Time, busy []model.TimeInterval) (model.ScheduleResult, error) {
	pol, err := s.cfg.Planner.Policy(time.Now(), eventStart)
	if err != nil {
		return model.ScheduleResult{}, err
	}
	if busy == nil && s.Source != nil {
		busy, err = s.Source.BusyIntervals(ctx, pol.HorizonStart, pol.EventStart)
		if err != nil {
			return model.ScheduleResult{}, fmt.Errorf("fetch busy intervals: %w", err)
		}
		s.log.Infof("fetched %d busy intervals", len(busy))
	}
	return s.Manager.Plan(ctx, busy, pol)
}

// FreeSlots computes the availability for an event without allocating.
func (s *Service) FreeSlots(ctx context.Context, eventStart time.Time, busy []model.TimeInterval) ([]model.FreeSlot, error) {
	pol, err := s.cfg.Planner.Policy(time.Now(), eventStart)
	if err != nil {
		return nil, err
	}
	if busy == nil && s.Source != nil {
		busy, err = s.Source.BusyIntervals(ctx, pol.HorizonStart, pol.EventStart)
		if err != nil {
			return nil, fmt.Errorf("fetch busy intervals: %w", err)
		}
	}
	sched, err := interval.NormalizeIn(busy, pol.HorizonStart.Location())
	if err != nil {
		return nil, err
	}
	return freetime.Compute(sched, pol), nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	return s.Manager.Close()
}
