package evaluator

import (
	"fmt"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/token"
)

// Limits holds the resource limits for one run. Zero means unlimited.
type Limits struct {
	MaxIterations int64
}

// Usage tracks resource consumption during a run.
type Usage struct {
	Iterations int64
	Calls      int64
}

func (ev *evaluator) checkIterationLimit(loc token.Location) error {
	if ev.limits.MaxIterations > 0 && ev.usage.Iterations >= ev.limits.MaxIterations {
		ev.emitWithData(TraceLimitExceeded, &loc, map[string]any{"maxIterations": ev.limits.MaxIterations})
		return &RuntimeError{
			Code:    diagnostics.ELimit,
			Message: fmt.Sprintf("iteration limit exceeded (max %d)", ev.limits.MaxIterations),
			Loc:     &loc,
		}
	}
	return nil
}
