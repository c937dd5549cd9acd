// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - StrategyEvent: allocator selection and fallback information
//   - PlanEvent: completed plan result
package events
