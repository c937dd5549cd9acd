package metrics

import coremetrics "github.com/prepsched/prepsched/core/metrics"

// MultiSink fans plan outcomes out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanOutcome forwards the record to all sinks, returning the
// first error encountered.
func (m *MultiSink) RecordPlanOutcome(out coremetrics.PlanOutcome) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanOutcome(out); err != nil {
			return err
		}
	}
	return nil
}
