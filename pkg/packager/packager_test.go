package packager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/packager/status"
	"github.com/oneconcern/solsync/pkg/process"
	processstatus "github.com/oneconcern/solsync/pkg/process/status"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type runnerMock struct {
	mock.Mock
}

func (m *runnerMock) Run(ctx context.Context, cmd process.Command) (process.Result, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(process.Result), args.Error(1)
}

// command matches a tool invocation, regardless of its output sink
func command(path, dir string, args ...string) interface{} {
	return mock.MatchedBy(func(cmd process.Command) bool {
		return cmd.Path == path && cmd.Dir == dir && assert.ObjectsAreEqual(args, cmd.Args)
	})
}

func TestExtract(t *testing.T) {
	const tool = "/opt/coretools/SolutionPackager.exe"
	runner := new(runnerMock)
	runner.On("Run", mock.Anything, command(tool, "/opt/coretools",
		"/action:Extract", "/zipfile:/tmp/a.zip", "/folder:/tmp/out",
		"/packagetype:Unmanaged", "/allowWrite:Yes", "/allowDelete:Yes", "/clobber",
		"/errorlevel:Verbose", "/nologo", "/log:packagerlog.txt",
	)).Return(process.Result{}, nil).Once()

	m := metrics.New()
	p := New(tool, WithRunner(runner), Metrics(m))
	require.NoError(t, p.Extract(context.Background(), "/tmp/a.zip", "/tmp/out"))
	runner.AssertExpectations(t)
	count, err := testutil.GatherAndCount(m.Registry(), "solsync_tool_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPackFailure(t *testing.T) {
	const tool = "/opt/coretools/SolutionPackager.exe"
	runner := new(runnerMock)
	runner.On("Run", mock.Anything, command("mono", "/opt/coretools",
		tool,
		"/action:Pack", "/zipfile:/tmp/b.zip", "/folder:/work/pkg",
		"/packagetype:Unmanaged", "/errorlevel:Verbose", "/nologo", "/log:packagerlog.txt",
	)).Run(func(args mock.Arguments) {
		cmd := args.Get(1).(process.Command)
		cmd.Sink(process.Line{Stream: process.Stdout, Text: "Processing Component: Entities"})
		cmd.Sink(process.Line{Stream: process.Stderr, Text: "Error: cannot map Account"})
	}).Return(process.Result{ExitCode: 2}, &process.ExternalToolError{Path: "mono", ExitCode: 2}).Once()

	p := New(tool, WithRunner(runner), Launcher("mono"))
	err := p.Pack(context.Background(), "/tmp/b.zip", "/work/pkg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrPack))
	assert.True(t, errors.Is(err, processstatus.ErrExternalTool))

	var exitErr *process.ExternalToolError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.ExitCode)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, ActionPack, toolErr.Action)
	assert.Equal(t, []string{"Processing Component: Entities", "Error: cannot map Account"}, toolErr.ToolOutput())
	runner.AssertExpectations(t)
}

func TestRunsInToolFolder(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-packager.sh")
	script := "#!/bin/sh\npwd\nfor a in \"$@\"; do echo \"$a\"; done\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	var c process.Collector
	p := New(tool, WithRunner(process.New(process.Sink(c.Sink()))))
	require.NoError(t, p.Extract(context.Background(), "/tmp/in.zip", "/tmp/out"))

	lines := c.Texts()
	require.NotEmpty(t, lines)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, []string{dir, resolvedDir}, lines[0])
	assert.Equal(t, ExtractArgs("/tmp/in.zip", "/tmp/out"), lines[1:])
	assert.True(t, strings.HasPrefix(lines[1], "/action:"))
}

func TestRelativePathsAreResolved(t *testing.T) {
	const tool = "/opt/coretools/SolutionPackager.exe"
	cwd, err := os.Getwd()
	require.NoError(t, err)

	runner := new(runnerMock)
	runner.On("Run", mock.Anything, command(tool, "/opt/coretools",
		"/action:Pack",
		"/zipfile:"+filepath.Join(cwd, "tmp", "import.zip"),
		"/folder:"+filepath.Join(cwd, "solutions", "contoso"),
		"/packagetype:Unmanaged", "/errorlevel:Verbose", "/nologo", "/log:packagerlog.txt",
	)).Return(process.Result{}, nil).Once()

	p := New(tool, WithRunner(runner))
	require.NoError(t, p.Pack(context.Background(), "tmp/import.zip", "./solutions/contoso"))
	runner.AssertExpectations(t)
}
