package plan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepsched/prepsched/core/events"
	"github.com/prepsched/prepsched/core/freetime"
	"github.com/prepsched/prepsched/core/interval"
	"github.com/prepsched/prepsched/core/logger"
	coremetrics "github.com/prepsched/prepsched/core/metrics"
	"github.com/prepsched/prepsched/core/model"
	"github.com/prepsched/prepsched/core/validate"
	"github.com/prepsched/prepsched/internal/eventbus"
)

const spreadTolerance = 1e-9

// PlanManager runs the full scheduling pipeline for one request:
// normalize busy intervals, compute free slots, allocate, validate and
// record. The heuristic allocator is the correctness floor; when LP-first
// is enabled and a solver is configured, the optimized candidate replaces
// it only if it is feasible and spreads the hours at least as well.
type PlanManager struct {
	heuristic GreedyAllocator
	lp        *LPAllocator
	metrics   coremetrics.MetricsSink
	bus       *eventbus.Bus[any]
	store     Store
	log       logger.Logger

	mu      sync.Mutex
	lpFirst bool
}

// nopLogger keeps the manager nil-safe for callers that do not care
// about logging.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// NewPlanManager wires a manager. lp, sink, bus and store may be nil;
// absent collaborators are skipped.
func NewPlanManager(heur GreedyAllocator, lp *LPAllocator, sink coremetrics.MetricsSink, bus *eventbus.Bus[any], store Store, log logger.Logger) *PlanManager {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &PlanManager{heuristic: heur, lp: lp, metrics: sink, bus: bus, store: store, log: log}
}

// SetLPFirst toggles whether the optimization backend is attempted.
func (m *PlanManager) SetLPFirst(v bool) {
	m.mu.Lock()
	m.lpFirst = v
	m.mu.Unlock()
}

// Plan schedules preparation blocks around the given busy intervals.
// The only error path is malformed input; infeasibility is expressed in
// the result.
func (m *PlanManager) Plan(ctx context.Context, busy []model.TimeInterval, pol model.AllocationPolicy) (model.ScheduleResult, error) {
	if err := pol.Validate(); err != nil {
		return model.ScheduleResult{}, err
	}
	sched, err := interval.NormalizeIn(busy, pol.HorizonStart.Location())
	if err != nil {
		return model.ScheduleResult{}, err
	}
	slots := freetime.Compute(sched, pol)

	start := time.Now()
	res := m.heuristic.Allocate(slots, pol)
	m.log.Debugw("heuristic candidate", map[string]any{
		"allocated_hours": res.AllocatedHours,
		"deficit_hours":   res.DeficitHours,
		"spread":          res.SpreadMetric,
	})

	if m.tryLP() {
		m.publish(events.StrategyEvent{Action: "lp_attempt"})
		lpRes, lpErr := m.lp.AllocateStrict(slots, pol)
		switch {
		case lpErr != nil:
			m.publish(events.StrategyEvent{Action: "lp_failure", Err: lpErr})
			m.publish(events.StrategyEvent{Action: "heuristic_fallback"})
			m.log.Warnf("lp allocation failed: %v", lpErr)
		case lpRes.Feasible && lpRes.SpreadMetric <= res.SpreadMetric+spreadTolerance:
			res = lpRes
			m.publish(events.StrategyEvent{Action: "lp_selected"})
		default:
			m.publish(events.StrategyEvent{Action: "lp_rejected"})
			m.log.Debugf("lp candidate rejected: feasible=%t spread=%.3f vs %.3f",
				lpRes.Feasible, lpRes.SpreadMetric, res.SpreadMetric)
		}
	}
	solveTime := time.Since(start)

	if vs := validate.Check(res, sched, pol); len(vs) > 0 {
		// A violating schedule indicates an allocator bug; it is never
		// surfaced as feasible.
		res.Feasible = false
		res.Violations = vs
		for _, v := range vs {
			m.log.Errorf("schedule validation: %s", v)
		}
	}

	planID := uuid.NewString()
	m.publish(events.PlanEvent{PlanID: planID, Result: res})
	out := coremetrics.PlanOutcome{
		PlanID:         planID,
		EventStart:     pol.EventStart,
		Strategy:       res.Strategy,
		Feasible:       res.Feasible,
		AllocatedHours: res.AllocatedHours,
		DeficitHours:   res.DeficitHours,
		SpreadMetric:   res.SpreadMetric,
		Blocks:         len(res.Blocks),
		SolveTime:      solveTime,
		Time:           time.Now(),
	}
	if err := m.metrics.RecordPlanOutcome(out); err != nil {
		m.log.Warnf("record plan outcome: %v", err)
	}
	if m.store != nil {
		if err := m.store.SavePlan(ctx, planID, res); err != nil {
			m.log.Errorf("save plan %s: %v", planID, err)
		}
	}
	return res, nil
}

func (m *PlanManager) tryLP() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lpFirst && m.lp != nil
}

func (m *PlanManager) publish(e any) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// Close releases resources held by the manager.
func (m *PlanManager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
