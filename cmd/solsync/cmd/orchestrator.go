package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/gopass"
	"github.com/imdario/mergo"
	"github.com/oneconcern/solsync/pkg/core"
	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/packager"
	"github.com/oneconcern/solsync/pkg/poller"
	"github.com/oneconcern/solsync/pkg/process"
	"github.com/oneconcern/solsync/pkg/remote"
	"github.com/oneconcern/solsync/pkg/remote/webapi"
	"go.uber.org/zap"
)

const defaultRateLimit = 10

// remoteSettings gathers what it takes to connect to the remote service
type remoteSettings struct {
	URL            string
	Token          string
	Credentials    webapi.Credentials
	APIVersion     string
	RequestTimeout time.Duration
	RateLimit      float64
}

var defaultRemoteSettings = remoteSettings{
	APIVersion:     webapi.DefaultAPIVersion,
	RequestTimeout: webapi.DefaultRequestTimeout,
	RateLimit:      defaultRateLimit,
}

var errMissingRemote = errors.New("remote service not configured")

// used to patch over the remote service and packaging tool during test
var buildOrchestrator = newOrchestrator

// readSecret prompts for the client secret on the terminal
var readSecret = func() (string, error) {
	_, _ = fmt.Fprint(os.Stderr, "Client secret: ")
	secret, err := gopass.GetPasswdMasked()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

func newRemoteSettings() (remoteSettings, error) {
	settings := remoteSettings{
		URL:   solsyncFlags.remote.url,
		Token: solsyncFlags.remote.token,
		Credentials: webapi.Credentials{
			Tenant:       solsyncFlags.remote.tenant,
			ClientID:     solsyncFlags.remote.clientID,
			ClientSecret: solsyncFlags.remote.clientSecret,
		},
		APIVersion:     solsyncFlags.remote.apiVersion,
		RequestTimeout: solsyncFlags.remote.requestTimeout,
		RateLimit:      solsyncFlags.remote.rateLimit,
	}
	if err := mergo.Merge(&settings, defaultRemoteSettings); err != nil {
		return settings, err
	}

	if settings.URL == "" {
		return settings, errMissingRemote.WrapMessage("set --url or the url key of the configuration file")
	}
	if settings.Token == "" && settings.Credentials.ClientID == "" {
		return settings, errMissingRemote.WrapMessage("set a token or client credentials")
	}
	if settings.Token == "" && settings.Credentials.ClientSecret == "" && solsyncFlags.remote.askSecret {
		secret, err := readSecret()
		if err != nil {
			return settings, err
		}
		settings.Credentials.ClientSecret = secret
	}
	return settings, nil
}

func (s remoteSettings) options(l *zap.Logger) []webapi.Option {
	opts := []webapi.Option{
		webapi.APIVersion(s.APIVersion),
		webapi.RequestTimeout(s.RequestTimeout),
		webapi.Logger(l),
	}
	if s.Token != "" {
		opts = append(opts, webapi.Token(s.Token))
	} else {
		opts = append(opts, webapi.ClientCredentials(s.Credentials))
	}
	if s.RateLimit > 0 {
		opts = append(opts, webapi.RateLimit(s.RateLimit, 1))
	}
	return opts
}

func newPackager(l *zap.Logger, m *metrics.Metrics) (*packager.Packager, error) {
	tool, err := packager.Resolve(configFs, solsyncFlags.packager.path)
	if err != nil {
		return nil, &core.ConfigurationError{Err: err}
	}
	sink := process.ZapSink(l, zap.String("tool", filepath.Base(tool)))
	if solsyncFlags.packager.showOutput {
		sink = process.MultiSink(sink, process.PrintfSink(func(format string, args ...interface{}) {
			_, _ = logStdOut(format, args...)
		}))
	}
	runner := process.New(
		process.Timeout(solsyncFlags.packager.timeout),
		process.Logger(l),
		process.Sink(sink),
		process.Env(solsyncFlags.packager.env),
	)
	opts := []packager.Option{
		packager.WithRunner(runner),
		packager.Logger(l),
		packager.Metrics(m),
	}
	if solsyncFlags.packager.launcher != "" {
		opts = append(opts, packager.Launcher(solsyncFlags.packager.launcher))
	}
	pkg := packager.New(tool, opts...)
	l.Info("using packaging tool", zap.String("path", pkg.Tool()))
	return pkg, nil
}

func newOrchestrator(l *zap.Logger, m *metrics.Metrics) (*core.Orchestrator, error) {
	settings, err := newRemoteSettings()
	if err != nil {
		return nil, &core.ConfigurationError{Err: err}
	}
	client, err := webapi.New(settings.URL, settings.options(l)...)
	if err != nil {
		return nil, &core.ConfigurationError{Err: err}
	}
	repo := remote.NewRepository(client, remote.RepositoryLogger(l))

	pkg, err := newPackager(l, m)
	if err != nil {
		return nil, err
	}

	return core.New(append(orchestratorOptions(l, m),
		core.WithRepository(repo),
		core.WithPackager(pkg),
		core.WithPoller(poller.New(repo,
			poller.Interval(solsyncFlags.poll.interval),
			poller.Timeout(solsyncFlags.poll.timeout),
			poller.MaxTransientFailures(solsyncFlags.poll.maxFailures),
			poller.Logger(l),
			poller.Metrics(m),
		)),
	)...)
}

// orchestratorOptions are the batch settings, whatever the collaborators
func orchestratorOptions(l *zap.Logger, m *metrics.Metrics) []core.Option {
	policy := core.ContinueOnError
	if solsyncFlags.sync.failFast {
		policy = core.FailFast
	}
	return []core.Option{
		core.WithLogger(l),
		core.WithMetrics(m),
		core.WithFailurePolicy(policy),
		core.WithConcurrency(solsyncFlags.sync.concurrency),
		core.WithKeepTemp(solsyncFlags.sync.keepTemp),
		core.WithProfile(solsyncFlags.sync.profile),
		core.WithTempDir(solsyncFlags.sync.tempDir),
	}
}
