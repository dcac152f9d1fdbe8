// Package prom exports retry run and attempt metrics to Prometheus.
package prom

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reboundio/rebound/observe"
)

// Observer implements observe.Observer, counting runs and attempts and
// recording wait and attempt durations.
type Observer struct {
	runsStarted     prometheus.Counter
	runsTotal       *prometheus.CounterVec
	attemptsTotal   *prometheus.CounterVec
	attemptDuration prometheus.Histogram
	waitDuration    prometheus.Histogram
}

// NewObserver registers the rebound metrics with reg and returns the
// observer. Pass prometheus.DefaultRegisterer to use the default registry.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)

	return &Observer{
		runsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "rebound_runs_started_total",
			Help: "Total number of retry runs started",
		}),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebound_runs_total",
				Help: "Total number of retry runs completed, by outcome",
			},
			[]string{"outcome"},
		),
		attemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rebound_attempts_total",
				Help: "Total number of attempts, by result",
			},
			[]string{"result"},
		),
		attemptDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rebound_attempt_duration_seconds",
			Help:    "Duration of individual attempts in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		waitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rebound_backoff_wait_seconds",
			Help:    "Backoff waits scheduled after failed attempts, in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (o *Observer) OnStart(_ context.Context, _ observe.Run) {
	o.runsStarted.Inc()
}

func (o *Observer) OnAttempt(_ context.Context, rec observe.AttemptRecord) {
	result := "success"
	if rec.Err != nil {
		result = "failure"
	}
	o.attemptsTotal.WithLabelValues(result).Inc()
	o.attemptDuration.Observe(rec.End.Sub(rec.Start).Seconds())
	if rec.Err != nil {
		o.waitDuration.Observe(rec.Wait.Seconds())
	}
}

func (o *Observer) OnSuccess(_ context.Context, _ observe.Timeline) {
	o.runsTotal.WithLabelValues("successful").Inc()
}

func (o *Observer) OnFailure(_ context.Context, tl observe.Timeline) {
	outcome := "exhausted"
	if errors.Is(tl.FinalErr, context.Canceled) || errors.Is(tl.FinalErr, context.DeadlineExceeded) {
		outcome = "aborted"
	}
	o.runsTotal.WithLabelValues(outcome).Inc()
}
