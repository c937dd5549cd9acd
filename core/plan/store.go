package plan

import (
	"context"

	"github.com/prepsched/prepsched/core/model"
)

// Store persists proposed plans for later confirmation or reconciliation.
// The SQLite implementation lives in infra/store.
type Store interface {
	// SavePlan persists the result under the given plan ID.
	SavePlan(ctx context.Context, planID string, res model.ScheduleResult) error
	Close() error
}
