// Package saga runs multi-step business operations best-effort: every step is
// attempted even when earlier steps fail, each outcome is recorded, and a
// single aggregated error reports which steps failed. Already-applied side
// effects are never rolled back; the system is left in the resulting state.
package saga

import (
	"context"
	"errors"

	"shopbooks/internal/core/apperror"
	"shopbooks/pkg/logger"
)

// Step is one unit of work inside an operation.
type Step struct {
	// Name identifies the step in outcomes and failure details.
	Name string

	// Run performs the step.
	Run func(ctx context.Context) error

	// Critical aborts the remaining steps when this one fails. Used for
	// steps the rest of the operation cannot proceed without.
	Critical bool
}

// Outcome records how a single step ended.
type Outcome struct {
	Name    string
	Err     error
	Skipped bool
}

// Run executes the steps in order. It returns every outcome plus a
// PARTIAL_FAILURE error when at least one step failed, or nil when all
// succeeded.
func Run(ctx context.Context, operation string, steps []Step) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(steps))
	aborted := false

	for _, step := range steps {
		if aborted {
			outcomes = append(outcomes, Outcome{Name: step.Name, Skipped: true})
			continue
		}

		err := step.Run(ctx)
		outcomes = append(outcomes, Outcome{Name: step.Name, Err: err})
		if err == nil {
			continue
		}

		logger.Warn(ctx, "saga step failed",
			"operation", operation,
			"step", step.Name,
			"error", err,
		)
		if step.Critical {
			aborted = true
		}
	}

	var failed []string
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o.Name)
			errs = append(errs, o.Err)
		}
	}
	if len(failed) == 0 {
		return outcomes, nil
	}
	return outcomes, apperror.NewPartialFailure(operation, failed, errors.Join(errs...))
}
