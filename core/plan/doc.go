// Package plan allocates preparation hours over free calendar slots.
//
// Two allocators implement the same contract: GreedyAllocator distributes
// the target hours day by day under a daily cap and a front-loading
// spread policy, and LPAllocator formulates the identical problem as a
// linear program solved by a pluggable backend. PlanManager runs the
// heuristic as the correctness floor, optionally tries the LP, validates
// the selected candidate and records the outcome.
package plan
