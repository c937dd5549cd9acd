// Package metrics defines the observability contract for plan requests.
// Sink implementations live in infra/metrics.
package metrics

import "time"

// PlanOutcome captures one completed scheduling request for recording.
type PlanOutcome struct {
	PlanID         string
	EventStart     time.Time
	Strategy       string
	Feasible       bool
	AllocatedHours float64
	DeficitHours   float64
	SpreadMetric   float64
	Blocks         int
	SolveTime      time.Duration
	Time           time.Time
}

// MetricsSink records plan outcomes for observability purposes.
type MetricsSink interface {
	RecordPlanOutcome(out PlanOutcome) error
}

// NopSink discards every record.
type NopSink struct{}

// RecordPlanOutcome implements MetricsSink.
func (NopSink) RecordPlanOutcome(PlanOutcome) error { return nil }
