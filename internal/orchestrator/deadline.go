// internal/orchestrator/deadline.go
package orchestrator

import (
	"time"

	commonerrors "labelforge/internal/common/errors"
)

// DeadlineGuard tracks one request's wall-clock budget. A fired guard takes
// priority over whatever error the current stage was about to produce.
type DeadlineGuard struct {
	start  time.Time
	budget time.Duration
}

func NewDeadlineGuard(budget time.Duration) *DeadlineGuard {
	return &DeadlineGuard{start: time.Now(), budget: budget}
}

// Remaining returns the unspent budget; zero or negative once fired.
func (g *DeadlineGuard) Remaining() time.Duration {
	return g.budget - time.Since(g.start)
}

// Exceeded reports whether the budget is spent.
func (g *DeadlineGuard) Exceeded() bool {
	return g.Remaining() <= 0
}

// Check returns the timeout error once the budget is spent, nil before.
func (g *DeadlineGuard) Check() error {
	if g.Exceeded() {
		return commonerrors.NewDeadlineExceededError(g.budget)
	}
	return nil
}

// Elapsed returns the time spent since the guard started.
func (g *DeadlineGuard) Elapsed() time.Duration {
	return time.Since(g.start)
}
