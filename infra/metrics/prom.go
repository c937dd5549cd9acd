package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/prepsched/prepsched/core/metrics"
)

// PromSink records plan outcomes in Prometheus metrics.
type PromSink struct {
	plans     *prometheus.CounterVec
	allocated prometheus.Gauge
	deficit   prometheus.Gauge
	solveTime *prometheus.HistogramVec
}

// NewPromSink registers plan metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prepsched_plans_total",
		Help: "Total number of plan requests",
	}, []string{"strategy", "feasible"})
	allocated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prepsched_allocated_hours",
		Help: "Hours allocated by the most recent plan",
	})
	deficit := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prepsched_deficit_hours",
		Help: "Hour shortfall of the most recent plan",
	})
	solveTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prepsched_solve_seconds",
		Help:    "Time spent computing a plan",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(allocated); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			allocated = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(deficit); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			deficit = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solveTime); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solveTime = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{plans: plans, allocated: allocated, deficit: deficit, solveTime: solveTime}, nil
}

// RecordPlanOutcome implements the MetricsSink interface.
func (s *PromSink) RecordPlanOutcome(out coremetrics.PlanOutcome) error {
	s.plans.WithLabelValues(out.Strategy, strconv.FormatBool(out.Feasible)).Inc()
	s.allocated.Set(out.AllocatedHours)
	s.deficit.Set(out.DeficitHours)
	s.solveTime.WithLabelValues(out.Strategy).Observe(out.SolveTime.Seconds())
	return nil
}
