package core

import (
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/opentracing/opentracing-go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FailurePolicy tells what happens to the remaining bundles of a run when a cycle fails
type FailurePolicy int

const (
	// ContinueOnError runs every bundle, whatever happens to the others
	ContinueOnError FailurePolicy = iota

	// FailFast stops the run at the first failed cycle
	FailFast
)

func (p FailurePolicy) String() string {
	if p == FailFast {
		return "fail-fast"
	}
	return "continue-on-error"
}

// Option for the Orchestrator
type Option func(*Orchestrator)

// WithRepository sets the remote bundle repository (required)
func WithRepository(r Repository) Option {
	return func(o *Orchestrator) {
		o.repo = r
	}
}

// WithPackager sets the packaging tool adapter (required)
func WithPackager(p Packager) Option {
	return func(o *Orchestrator) {
		o.packager = p
	}
}

// WithSyncer sets the tree syncer. It defaults to a syncer on the orchestrator's file system.
func WithSyncer(s Syncer) Option {
	return func(o *Orchestrator) {
		o.syncer = s
	}
}

// WithEditor sets the manifest editor. It defaults to an editor on the orchestrator's file system.
func WithEditor(e Editor) Option {
	return func(o *Orchestrator) {
		o.editor = e
	}
}

// WithPoller sets the import job poller.
// It defaults to a poller with default settings, querying the repository.
func WithPoller(p Poller) Option {
	return func(o *Orchestrator) {
		o.poller = p
	}
}

// WithFs sets the file system holding package folders and temporary areas
func WithFs(fs afero.Fs) Option {
	return func(o *Orchestrator) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithTempDir sets the folder where cycles create their temporary areas
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) {
		if dir != "" {
			o.tempDir = dir
		}
	}
}

// WithKeepTemp keeps the temporary area of each cycle, for troubleshooting
func WithKeepTemp(keep bool) Option {
	return func(o *Orchestrator) {
		o.keepTemp = keep
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.l = l
		}
	}
}

// WithMetrics collects cycle metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithFailurePolicy sets the failure policy of a run. It defaults to ContinueOnError.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *Orchestrator) {
		o.policy = p
	}
}

// WithConcurrency sets how many cycles may run at the same time. It defaults to 1.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n < 1 {
			n = 1
		}
		o.concurrency = n
	}
}

// WithProfile selects the bundle configurations of a profile. It defaults to the default profile.
func WithProfile(profile string) Option {
	return func(o *Orchestrator) {
		o.profile = profile
	}
}

// WithTracer records a span per cycle, with the operations on staged archives as children.
// It defaults to a no-op tracer.
func WithTracer(tr opentracing.Tracer) Option {
	return func(o *Orchestrator) {
		if tr != nil {
			o.tracer = tr
		}
	}
}
