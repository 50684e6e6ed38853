package core

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/oneconcern/solsync/pkg/core/status"
	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/manifest"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/poller"
	"github.com/oneconcern/solsync/pkg/storage"
	"github.com/oneconcern/solsync/pkg/storage/localfs"
	"github.com/oneconcern/solsync/pkg/treesync"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Orchestrator runs synchronization cycles
type Orchestrator struct {
	repo     Repository
	packager Packager
	syncer   Syncer
	editor   Editor
	poller   Poller

	fs          afero.Fs
	tempDir     string
	keepTemp    bool
	policy      FailurePolicy
	concurrency int
	profile     string
	l           *zap.Logger
	metrics     *metrics.Metrics
	tracer      opentracing.Tracer

	mu       sync.Mutex
	folders  map[string]*sync.Mutex
	inFlight atomic.Int32
}

// New Orchestrator. A repository and a packager are required.
func New(opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		fs:          afero.NewOsFs(),
		tempDir:     os.TempDir(),
		concurrency: 1,
		profile:     model.DefaultProfile,
		l:           dlogger.OrNop(nil),
		tracer:      opentracing.NoopTracer{},
		folders:     make(map[string]*sync.Mutex),
	}
	for _, apply := range opts {
		apply(o)
	}

	if o.repo == nil {
		return nil, &ConfigurationError{Err: status.ErrConfiguration.WrapMessage("no remote repository")}
	}
	if o.packager == nil {
		return nil, &ConfigurationError{Err: status.ErrConfiguration.WrapMessage("no packaging tool")}
	}
	if o.syncer == nil {
		o.syncer = treesync.New(treesync.Fs(o.fs), treesync.Logger(o.l))
	}
	if o.editor == nil {
		o.editor = manifest.New(manifest.Fs(o.fs), manifest.Logger(o.l))
	}
	if o.poller == nil {
		source, ok := o.repo.(poller.StatusSource)
		if !ok {
			return nil, &ConfigurationError{Err: status.ErrConfiguration.WrapMessage("no import poller")}
		}
		o.poller = poller.New(source, poller.Logger(o.l), poller.Metrics(o.metrics))
	}
	return o, nil
}

// InFlight counts the cycles currently running
func (o *Orchestrator) InFlight() int {
	return int(o.inFlight.Load())
}

// lockFolder serializes cycles on the same package folder. It returns the unlock function.
func (o *Orchestrator) lockFolder(folder string) func() {
	key := filepath.Clean(folder)
	o.mu.Lock()
	lock, ok := o.folders[key]
	if !ok {
		lock = &sync.Mutex{}
		o.folders[key] = lock
	}
	o.mu.Unlock()

	lock.Lock()
	o.inFlight.Inc()
	return func() {
		o.inFlight.Dec()
		lock.Unlock()
	}
}

// stage creates the temporary area of a cycle, with a store for its archives.
//
// The returned cleanup removes the area, unless configured to keep it.
func (o *Orchestrator) stage(ctx context.Context, l *zap.Logger) (string, storage.Store, func(), error) {
	if err := o.fs.MkdirAll(o.tempDir, 0o700); err != nil {
		return "", nil, nil, status.ErrStaging.WrapWithLog(l, err, zap.String("path", o.tempDir))
	}
	dir, err := afero.TempDir(o.fs, o.tempDir, "solsync-")
	if err != nil {
		return "", nil, nil, status.ErrStaging.WrapWithLog(l, err, zap.String("path", o.tempDir))
	}
	local, err := localfs.New(o.fs, filepath.Join(dir, "archives"))
	if err != nil {
		_ = o.fs.RemoveAll(dir)
		return "", nil, nil, status.ErrStaging.WrapWithLog(l, err, zap.String("path", dir))
	}
	store := storage.Instrument(o.tracer, l, local)

	cleanup := func() {
		if o.keepTemp {
			keys, _ := store.Keys(ctx)
			l.Info("temporary area kept", zap.String("path", dir), zap.Strings("archives", keys))
			return
		}
		if err := store.Clear(ctx); err != nil {
			l.Warn("cannot clear staged archives", zap.String("store", store.String()), zap.Error(err))
		}
		if err := o.fs.RemoveAll(dir); err != nil {
			l.Warn("cannot remove temporary area", zap.String("path", dir), zap.Error(err))
		}
	}
	return dir, store, cleanup, nil
}

// startCycle opens the span of a cycle. Store operations of the cycle are recorded as its children.
func (o *Orchestrator) startCycle(ctx context.Context, mode model.Mode, bundle model.BundleConfig) (opentracing.Span, context.Context) {
	return opentracing.StartSpanFromContextWithTracer(ctx, o.tracer, "solsync."+mode.String(),
		opentracing.Tag{Key: "bundle", Value: bundle.UniqueName},
		opentracing.Tag{Key: "packagepath", Value: bundle.PackagePath},
	)
}

// finishCycle closes the span of a cycle, flagging failures
func finishCycle(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("event", "error", "message", err.Error())
	}
	span.Finish()
}
