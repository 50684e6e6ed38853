// Package poller waits for asynchronous remote jobs to complete.
//
// Job status is queried at a fixed interval until the job succeeds, fails or the
// deadline passes. Errors while querying are expected (the job may not be visible
// yet, or be locked) and do not stop polling.
package poller

import (
	"context"
	"time"

	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/poller/status"
	"github.com/oneconcern/solsync/pkg/remote"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

const (
	// DefaultInterval between two status queries
	DefaultInterval = 2 * time.Second

	// DefaultTimeout after which a job still running is abandoned
	DefaultTimeout = 15 * time.Minute
)

// StatusSource queries the status of a job
type StatusSource interface {
	JobStatus(context.Context, model.AsyncJobHandle) (remote.JobStatus, error)
}

// Poller waits for jobs
type Poller struct {
	source       StatusSource
	interval     time.Duration
	timeout      time.Duration
	maxTransient int
	clock        clock.Clock
	l            *zap.Logger
	metrics      *metrics.Metrics
}

// Option for the Poller
type Option func(*Poller)

// Interval between status queries
func Interval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// Timeout of a job
func Timeout(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// MaxTransientFailures gives up after n consecutive failed status queries. 0 means never.
func MaxTransientFailures(n int) Option {
	return func(p *Poller) {
		if n >= 0 {
			p.maxTransient = n
		}
	}
}

// Clock measures the interval and the deadline
func Clock(c clock.Clock) Option {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// Logger for the Poller
func Logger(l *zap.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.l = l
		}
	}
}

// Metrics counts status queries
func Metrics(m *metrics.Metrics) Option {
	return func(p *Poller) {
		p.metrics = m
	}
}

// New Poller querying a status source
func New(source StatusSource, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		clock:    clock.RealClock{},
		l:        dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

// AwaitCompletion polls the job until it reaches a terminal state or times out.
//
// The first query is immediate. A failed job yields an *ImportError, a job still
// running at the deadline yields status.ErrImportTimeout. Cancelling ctx stops waiting.
func (p *Poller) AwaitCompletion(ctx context.Context, handle model.AsyncJobHandle) (model.AsyncJobOutcome, error) {
	l := p.l.With(zap.Stringer("job", handle.JobID))
	started := p.clock.Now()
	deadline := started.Add(p.timeout)
	failures := 0

	for {
		st, err := p.source.JobStatus(ctx, handle)
		p.metrics.ImportPoll()

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return model.AsyncJobOutcome{}, status.ErrInterrupted.Wrap(ctx.Err())
			}
			failures++
			l.Debug("import status not available yet", zap.Int("failures", failures), zap.Error(err))
			if p.maxTransient > 0 && failures >= p.maxTransient {
				return model.AsyncJobOutcome{}, status.ErrTooManyTransientFailures.Wrap(err)
			}

		case !st.Terminal():
			failures = 0
			l.Debug("import still running", zap.Int("status code", st.Code))

		case st.Succeeded():
			l.Info("import completed", zap.Duration("elapsed", p.clock.Since(started)))
			return model.Succeeded(), nil

		default:
			msg := st.FailureMessage()
			l.Error("import failed", zap.String("message", msg))
			return model.Failed(msg), &ImportError{Message: msg}
		}

		if !p.clock.Now().Before(deadline) {
			l.Error("import timed out", zap.Duration("timeout", p.timeout))
			return model.TimedOut(), status.ErrImportTimeout.WrapMessage("job %v still running after %v", handle.JobID, p.timeout)
		}

		if err := p.sleep(ctx); err != nil {
			return model.AsyncJobOutcome{}, err
		}
	}
}

func (p *Poller) sleep(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return status.ErrInterrupted.Wrap(err)
	}
	timer := p.clock.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return status.ErrInterrupted.Wrap(ctx.Err())
	case <-timer.C():
		return nil
	}
}
