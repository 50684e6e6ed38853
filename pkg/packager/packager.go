// Package packager drives the external tool converting bundle archives to folders, and back.
package packager

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/packager/status"
	"github.com/oneconcern/solsync/pkg/process"
	"go.uber.org/zap"
)

// Action performed by the packaging tool
type Action string

const (
	// ActionExtract unpacks an archive into a folder
	ActionExtract Action = "extract"

	// ActionPack packs a folder into an archive
	ActionPack Action = "pack"

	// LogFile is written by the tool in its own folder
	LogFile = "packagerlog.txt"

	// OutputLines is how many of the last lines printed by a failed tool run are kept in the error
	OutputLines = 40
)

// ToolError reports a failed run of the packaging tool, with the last lines it printed
type ToolError struct {
	Action Action
	Output []string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

// Unwrap the error of the run
func (e *ToolError) Unwrap() error {
	return e.Err
}

// ToolOutput printed by the tool before it failed
func (e *ToolError) ToolOutput() []string {
	return e.Output
}

// ExtractArgs returns the command line to unpack an unmanaged archive, overwriting the target folder
func ExtractArgs(zip, folder string) []string {
	return []string{
		"/action:Extract",
		"/zipfile:" + zip,
		"/folder:" + folder,
		"/packagetype:Unmanaged",
		"/allowWrite:Yes",
		"/allowDelete:Yes",
		"/clobber",
		"/errorlevel:Verbose",
		"/nologo",
		"/log:" + LogFile,
	}
}

// PackArgs returns the command line to pack a folder into an unmanaged archive
func PackArgs(zip, folder string) []string {
	return []string{
		"/action:Pack",
		"/zipfile:" + zip,
		"/folder:" + folder,
		"/packagetype:Unmanaged",
		"/errorlevel:Verbose",
		"/nologo",
		"/log:" + LogFile,
	}
}

// Runner executes a command
type Runner interface {
	Run(context.Context, process.Command) (process.Result, error)
}

// Packager runs the packaging tool
type Packager struct {
	tool     string
	launcher string
	runner   Runner
	l        *zap.Logger
	metrics  *metrics.Metrics
}

// Option for the Packager
type Option func(*Packager)

// WithRunner sets the process runner
func WithRunner(r Runner) Option {
	return func(p *Packager) {
		if r != nil {
			p.runner = r
		}
	}
}

// Launcher runs the tool through an interpreter, e.g. mono
func Launcher(path string) Option {
	return func(p *Packager) {
		p.launcher = path
	}
}

// Logger for the Packager
func Logger(l *zap.Logger) Option {
	return func(p *Packager) {
		if l != nil {
			p.l = l
		}
	}
}

// Metrics collects tool runs
func Metrics(m *metrics.Metrics) Option {
	return func(p *Packager) {
		p.metrics = m
	}
}

// New Packager for the tool at the given path.
//
// Without a runner, tool output is logged.
func New(tool string, opts ...Option) *Packager {
	if abs, err := filepath.Abs(tool); err == nil {
		tool = abs
	}
	p := &Packager{
		tool: tool,
		l:    dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(p)
	}
	if p.runner == nil {
		p.runner = process.New(
			process.Logger(p.l),
			process.Sink(process.ZapSink(p.l, zap.String("tool", filepath.Base(tool)))),
		)
	}
	return p
}

// Tool path
func (p *Packager) Tool() string {
	return p.tool
}

// Extract the archive into folder
func (p *Packager) Extract(ctx context.Context, zip, folder string) error {
	zip, folder, err := absPaths(zip, folder)
	if err != nil {
		return status.ErrExtract.Wrap(err)
	}
	if err := p.run(ctx, ActionExtract, ExtractArgs(zip, folder)); err != nil {
		return status.ErrExtract.Wrap(err)
	}
	return nil
}

// Pack folder into the archive
func (p *Packager) Pack(ctx context.Context, zip, folder string) error {
	zip, folder, err := absPaths(zip, folder)
	if err != nil {
		return status.ErrPack.Wrap(err)
	}
	if err := p.run(ctx, ActionPack, PackArgs(zip, folder)); err != nil {
		return status.ErrPack.Wrap(err)
	}
	return nil
}

// absPaths resolves paths against the current directory: the tool runs from its own folder
func absPaths(zip, folder string) (string, string, error) {
	absZip, err := filepath.Abs(zip)
	if err != nil {
		return "", "", err
	}
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return "", "", err
	}
	return absZip, absFolder, nil
}

func (p *Packager) run(ctx context.Context, action Action, args []string) error {
	output := &process.Collector{Max: OutputLines}
	cmd := process.Command{
		Path: p.tool,
		Dir:  filepath.Dir(p.tool),
		Args: args,
		Sink: output.Sink(),
	}
	if p.launcher != "" {
		cmd.Path = p.launcher
		cmd.Args = append([]string{p.tool}, args...)
	}

	res, err := p.runner.Run(ctx, cmd)
	p.metrics.ToolRun(string(action), err)
	if err != nil {
		return &ToolError{Action: action, Output: output.Texts(), Err: err}
	}
	p.l.Debug("packaging tool done", zap.String("action", string(action)), zap.Duration("duration", res.Duration))
	return nil
}
