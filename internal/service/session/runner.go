package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner drives an Engine at a fixed frame rate for presentation layers
// that do not run their own event loop. Each frame fades notifications
// and, when the engine is waiting on the oracle, starts exactly one
// background step; the frame loop never blocks on the oracle.
type Runner struct {
	engine *Engine
	frame  time.Duration
	logger *zap.Logger
}

// NewRunner creates a runner ticking frameRate times per second.
func NewRunner(engine *Engine, frameRate int, logger *zap.Logger) *Runner {
	if frameRate < 1 {
		frameRate = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine: engine,
		frame:  time.Second / time.Duration(frameRate),
		logger: logger,
	}
}

// Run loops until ctx is done, the engine exits, or an oracle step fails;
// the step error is returned. An in-flight step is always waited for.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	stepDone := make(chan error, 1)
	inFlight := false
	wait := func() {
		if inFlight {
			<-stepDone
			inFlight = false
		}
	}

	for {
		select {
		case <-ctx.Done():
			wait()
			return nil
		case <-r.engine.Exited():
			wait()
			r.logger.Info("session exited")
			return nil
		case err := <-stepDone:
			inFlight = false
			if err != nil && ctx.Err() != nil {
				return nil
			}
			if err != nil {
				r.logger.Error("runner stopped by oracle failure", zap.Error(err))
				return err
			}
		case <-ticker.C:
			r.engine.Tick()
			if !inFlight && r.engine.NeedsStep() {
				inFlight = true
				go func() {
					stepDone <- r.engine.Step(ctx)
				}()
			}
		}
	}
}
