package core

import (
	"context"
	"time"

	"github.com/oneconcern/solsync/pkg/core/status"
	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/model"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CycleResult is the outcome of the synchronization of one bundle
type CycleResult struct {
	Config   string
	Bundle   model.BundleConfig
	Mode     model.Mode
	Identity model.BundleIdentity
	Err      error
	Skipped  bool
	Started  time.Time
	Finished time.Time

	// ToolOutput holds the lines printed by the packaging tool when it failed the cycle
	ToolOutput []string

	cfg model.ConfigFile
}

// toolOutput is implemented by errors which carry the output of an external tool
type toolOutput interface {
	ToolOutput() []string
}

var errStopped = errors.New("stopped after a failed cycle")

// Duration of the cycle
func (r CycleResult) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Report on a run, with results in configuration order
type Report struct {
	Mode    model.Mode
	Results []CycleResult
}

// Err combines the errors of all failed cycles
func (r Report) Err() error {
	var err error
	for _, res := range r.Results {
		err = multierr.Append(err, res.Err)
	}
	return err
}

// Failed counts failed cycles
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil && !res.Skipped {
			n++
		}
	}
	return n
}

// Skipped counts bundles which have not been processed
func (r Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}

type cycleFunc func(context.Context, model.ConfigFile, model.BundleConfig) (model.BundleIdentity, error)

// Run a cycle for every bundle selected in the configuration files.
//
// With ContinueOnError every bundle is processed. With FailFast, bundles not started yet when a
// cycle fails are reported as skipped, while cycles already running complete.
func (o *Orchestrator) Run(ctx context.Context, mode model.Mode, configs []model.ConfigFile) Report {
	report := Report{Mode: mode}
	for _, cfg := range configs {
		o.l.Info("using config", zap.String("path", cfg.Path))
		for _, bundle := range cfg.SolutionConfigs(o.profile) {
			report.Results = append(report.Results, CycleResult{Config: cfg.Path, Bundle: bundle, Mode: mode, cfg: cfg})
		}
	}

	var cycle cycleFunc
	switch mode {
	case model.ModeUnpack:
		cycle = o.Unpack
	case model.ModePackAndUpload:
		cycle = o.PackAndUpload
	default:
		for i := range report.Results {
			report.Results[i].Err = status.ErrUnknownMode.WrapMessage("%q", mode)
		}
		return report
	}

	// under FailFast, a failure prevents new cycles while started ones run to completion
	var (
		g       errgroup.Group
		stopped atomic.Bool
	)
	g.SetLimit(o.concurrency)

	skip := func(res *CycleResult) bool {
		switch {
		case ctx.Err() != nil:
			markSkipped(res, ctx.Err())
		case stopped.Load():
			markSkipped(res, errStopped)
		default:
			return false
		}
		return true
	}

	for i := range report.Results {
		res := &report.Results[i]
		if skip(res) {
			continue
		}
		g.Go(func() error {
			if skip(res) {
				return nil
			}
			res.Started = time.Now()
			res.Identity, res.Err = cycle(ctx, res.cfg, res.Bundle)
			res.Finished = time.Now()
			o.metrics.CycleDone(mode.String(), res.Err, res.Duration())

			if res.Err != nil {
				var tool toolOutput
				if errors.As(res.Err, &tool) {
					res.ToolOutput = tool.ToolOutput()
				}
				o.l.Error("bundle sync failed",
					zap.String("bundle", res.Bundle.UniqueName),
					zap.String("mode", mode.String()),
					zap.Error(res.Err),
				)
				if o.policy == FailFast {
					stopped.Store(true)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	o.l.Info("processed config(s)",
		zap.Int("configs", len(configs)),
		zap.Int("bundles", len(report.Results)),
		zap.Int("failed", report.Failed()),
		zap.Int("skipped", report.Skipped()),
	)
	return report
}

func markSkipped(res *CycleResult, cause error) {
	res.Skipped = true
	res.Err = status.ErrInterrupted.Wrap(cause)
}
