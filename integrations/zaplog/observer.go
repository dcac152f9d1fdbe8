// Package zaplog logs retry run lifecycle events through a zap logger.
package zaplog

import (
	"context"

	"go.uber.org/zap"

	"github.com/reboundio/rebound/observe"
)

// Observer implements observe.Observer on top of a *zap.Logger.
type Observer struct {
	log *zap.Logger
}

// NewObserver wraps log. A nil logger falls back to zap.NewNop().
func NewObserver(log *zap.Logger) *Observer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observer{log: log}
}

func (o *Observer) OnStart(_ context.Context, run observe.Run) {
	o.log.Debug("retry run started",
		zap.Stringer("run_id", run.ID),
		zap.Duration("cap", run.Policy.Cap),
		zap.Duration("base", run.Policy.Base),
		zap.Int("max_attempts", run.Policy.MaxAttempts),
		zap.Bool("infinite", run.Policy.Infinite),
		zap.Bool("jitter", run.Policy.Jitter),
	)
}

func (o *Observer) OnAttempt(_ context.Context, rec observe.AttemptRecord) {
	if rec.Err == nil {
		o.log.Debug("attempt succeeded",
			zap.Stringer("run_id", rec.RunID),
			zap.Int("attempt", rec.Attempt),
			zap.Duration("duration", rec.End.Sub(rec.Start)),
		)
		return
	}
	o.log.Warn("attempt failed",
		zap.Stringer("run_id", rec.RunID),
		zap.Int("attempt", rec.Attempt),
		zap.Duration("duration", rec.End.Sub(rec.Start)),
		zap.Duration("backoff", rec.Wait),
		zap.Error(rec.Err),
	)
}

func (o *Observer) OnSuccess(_ context.Context, tl observe.Timeline) {
	o.log.Info("retry run succeeded",
		zap.Stringer("run_id", tl.Run.ID),
		zap.Int("attempts", len(tl.Attempts)),
		zap.Duration("duration", tl.End.Sub(tl.Run.Start)),
	)
}

func (o *Observer) OnFailure(_ context.Context, tl observe.Timeline) {
	o.log.Error("retry run failed",
		zap.Stringer("run_id", tl.Run.ID),
		zap.Int("attempts", len(tl.Attempts)),
		zap.Duration("duration", tl.End.Sub(tl.Run.Start)),
		zap.Error(tl.FinalErr),
	)
}
