package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/process/status"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds runaway tool runs. Interactive runs are never expected to get close.
	DefaultTimeout = 20 * time.Hour

	// DefaultWaitDelay is how long output pipes are kept open after the process exits
	// (e.g. when a grandchild still holds them)
	DefaultWaitDelay = 5 * time.Second
)

// Command describes an external tool invocation
type Command struct {
	Path string
	Dir  string
	Args []string

	// Sink receives the output of this run, in addition to the sink of the runner
	Sink LineSink
}

func (c Command) String() string {
	return fmt.Sprintf("%s %v", c.Path, c.Args)
}

// Result of a terminated run
type Result struct {
	ExitCode int
	Duration time.Duration
}

// ExternalToolError reports a non-zero exit code.
//
// The tool's output has been delivered to the sink before this error is returned.
type ExternalToolError struct {
	Path     string
	ExitCode int
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s exited with error %d", e.Path, e.ExitCode)
}

// Is matches status.ErrExternalTool
func (e *ExternalToolError) Is(target error) bool {
	return target == status.ErrExternalTool
}

// Runner executes external tools
type Runner struct {
	timeout   time.Duration
	waitDelay time.Duration
	sink      LineSink
	env       map[string]string
	l         *zap.Logger
}

// Option for a Runner
type Option func(*Runner)

// Timeout sets the hard wall-clock limit of a run
func Timeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WaitDelay sets how long to wait for output pipes to close after the process exited or was killed
func WaitDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.waitDelay = d
	}
}

// Sink sets the destination of output lines
func Sink(s LineSink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// Env adds environment variables to the current environment of the child process
func Env(env map[string]string) Option {
	return func(r *Runner) {
		if r.env == nil {
			r.env = make(map[string]string, len(env))
		}
		for k, v := range env {
			r.env[k] = v
		}
	}
}

// Logger sets a logger for this runner
func Logger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.l = l
		}
	}
}

// New runner. Without a sink, output lines go to the logger.
func New(opts ...Option) *Runner {
	r := &Runner{
		timeout:   DefaultTimeout,
		waitDelay: DefaultWaitDelay,
		l:         dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(r)
	}
	if r.sink == nil {
		r.sink = ZapSink(r.l)
	}
	return r
}

// Run the command and block until it exits or the timeout elapses
func (r *Runner) Run(ctx context.Context, cmd Command) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = r.waitDelay
	if len(r.env) > 0 {
		c.Env = os.Environ()
		for k, v := range r.env {
			c.Env = append(c.Env, k+"="+v)
		}
	}

	sink := r.sink
	if cmd.Sink != nil {
		sink = MultiSink(r.sink, cmd.Sink)
	}
	var mu sync.Mutex
	emit := func(line Line) {
		mu.Lock()
		defer mu.Unlock()
		sink(line)
	}
	stdout := &lineWriter{stream: Stdout, emit: emit}
	stderr := &lineWriter{stream: Stderr, emit: emit}
	c.Stdout = stdout
	c.Stderr = stderr

	r.l.Info("running external tool", zap.String("path", cmd.Path), zap.Strings("args", cmd.Args), zap.String("dir", cmd.Dir))
	start := time.Now()
	if err := c.Start(); err != nil {
		return Result{ExitCode: -1}, status.ErrLaunch.Wrap(err)
	}

	// exec drains both streams on its own goroutines: Wait returns once they are done
	waitErr := c.Wait()
	stdout.Flush()
	stderr.Flush()

	res := Result{ExitCode: -1, Duration: time.Since(start)}
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}
	r.l.Debug("external tool terminated", zap.String("path", cmd.Path), zap.Int("exit code", res.ExitCode), zap.Duration("duration", res.Duration))

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return res, status.ErrTimeout.WrapMessage("%s still running after %v", cmd.Path, r.timeout)
	case ctx.Err() != nil:
		return res, status.ErrInterrupted.Wrap(ctx.Err())
	case waitErr == nil:
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && res.ExitCode > 0 {
		return res, &ExternalToolError{Path: cmd.Path, ExitCode: res.ExitCode}
	}
	return res, status.ErrExternalTool.Wrap(waitErr)
}
