package app

import (
	"context"
	"fmt"
	"time"

	"tcdump/internal"
)

// Stage is one batch pass of a conversion run
type Stage struct {
	Name string
	Run  func() error
}

// StageRunner executes the passes of a run in order
type StageRunner struct {
	logger *internal.Logger
}

// NewStageRunner creates a new stage runner
func NewStageRunner(logger *internal.Logger) *StageRunner {
	return &StageRunner{logger: logger}
}

// Run executes stages one after another. The context is checked before each
// stage; the first failing stage stops the run.
func (r *StageRunner) Run(ctx context.Context, stages ...Stage) error {
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("conversion cancelled before %s: %w", stage.Name, err)
		}
		start := time.Now()
		if err := stage.Run(); err != nil {
			return fmt.Errorf("pass %d (%s) failed: %w", i+1, stage.Name, err)
		}
		r.logger.Debug("pass %d (%s) finished in %s", i+1, stage.Name, time.Since(start))
	}
	return nil
}
