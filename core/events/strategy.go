package events

import "github.com/prepsched/prepsched/core/model"

// StrategyEvent is emitted when the plan manager chooses an allocator.
// Action can be "lp_attempt", "lp_failure", "lp_selected", "lp_rejected"
// or "heuristic_fallback".
type StrategyEvent struct {
	Action string
	Err    error
}

// PlanEvent is emitted after a plan request completes, carrying the
// final validated result.
type PlanEvent struct {
	PlanID string
	Result model.ScheduleResult
}
