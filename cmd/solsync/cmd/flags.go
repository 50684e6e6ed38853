package cmd

import (
	"time"

	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/poller"
	"github.com/oneconcern/solsync/pkg/process"
	"github.com/spf13/cobra"
)

type flagsT struct {
	root struct {
		logLevel    string
		logFormat   string
		metricsFile string
	}
	remote struct {
		url            string
		token          string
		tenant         string
		clientID       string
		clientSecret   string
		askSecret      bool
		apiVersion     string
		requestTimeout time.Duration
		rateLimit      float64
	}
	packager struct {
		path       string
		launcher   string
		timeout    time.Duration
		showOutput bool
		env        map[string]string
	}
	sync struct {
		profile     string
		failFast    bool
		concurrency int
		keepTemp    bool
		tempDir     string
	}
	poll struct {
		interval    time.Duration
		timeout     time.Duration
		maxFailures int
	}
}

var solsyncFlags = flagsT{}

func addLogLevel(cmd *cobra.Command) string {
	const loglevel = "loglevel"
	cmd.PersistentFlags().StringVar(&solsyncFlags.root.logLevel, loglevel, dlogger.LogLevelInfo,
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addLogFormat(cmd *cobra.Command) string {
	const logFormat = "log-format"
	cmd.PersistentFlags().StringVar(&solsyncFlags.root.logFormat, logFormat, dlogger.FormatConsole,
		"The format of log entries: console or json")
	return logFormat
}

func addMetricsFileFlag(cmd *cobra.Command) string {
	const metricsFile = "metrics-file"
	cmd.PersistentFlags().StringVar(&solsyncFlags.root.metricsFile, metricsFile, "",
		"Write metrics about the run to this file, in the prometheus text format")
	return metricsFile
}

func addURLFlag(cmd *cobra.Command) string {
	const url = "url"
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.url, url, "", "The base URL of the remote service")
	return url
}

func addTokenFlag(cmd *cobra.Command) string {
	const token = "token"
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.token, token, "",
		"A bearer token to authenticate against the remote service")
	return token
}

func addCredentialFlags(cmd *cobra.Command) []string {
	const (
		tenant       = "tenant"
		clientID     = "client-id"
		clientSecret = "client-secret"
		askSecret    = "ask-secret"
	)
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.tenant, tenant, "", "The tenant of the application registration")
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.clientID, clientID, "", "The client id of the application registration")
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.clientSecret, clientSecret, "", "The client secret of the application registration")
	cmd.PersistentFlags().BoolVar(&solsyncFlags.remote.askSecret, askSecret, false,
		"Prompt for the client secret when it is not configured")
	return []string{tenant, clientID, clientSecret, askSecret}
}

func addAPIVersionFlag(cmd *cobra.Command) string {
	const apiVersion = "api-version"
	cmd.PersistentFlags().StringVar(&solsyncFlags.remote.apiVersion, apiVersion, "",
		"The version of the remote web API (defaults to v9.2)")
	return apiVersion
}

func addRequestFlags(cmd *cobra.Command) []string {
	const (
		requestTimeout = "request-timeout"
		rateLimit      = "rate-limit"
	)
	cmd.PersistentFlags().DurationVar(&solsyncFlags.remote.requestTimeout, requestTimeout, 0,
		"The timeout of a single request to the remote service (defaults to 10m)")
	cmd.PersistentFlags().Float64Var(&solsyncFlags.remote.rateLimit, rateLimit, 0,
		"The maximum number of requests per second to the remote service (0 means no limit)")
	return []string{requestTimeout, rateLimit}
}

func addPackagerFlags(cmd *cobra.Command) []string {
	const (
		packager   = "packager"
		launcher   = "launcher"
		timeout    = "tool-timeout"
		showOutput = "show-tool-output"
		env        = "tool-env"
	)
	cmd.PersistentFlags().StringVar(&solsyncFlags.packager.path, packager, "",
		"The path to the packaging tool. When not set, the tool is searched for alongside solsync")
	cmd.PersistentFlags().StringVar(&solsyncFlags.packager.launcher, launcher, "",
		"A program to launch the packaging tool with, e.g. mono")
	cmd.PersistentFlags().DurationVar(&solsyncFlags.packager.timeout, timeout, process.DefaultTimeout,
		"The maximum duration of a run of the packaging tool")
	cmd.PersistentFlags().BoolVar(&solsyncFlags.packager.showOutput, showOutput, false,
		"Print the output of the packaging tool as it runs")
	cmd.PersistentFlags().StringToStringVar(&solsyncFlags.packager.env, env, nil,
		"Environment variables for the packaging tool, as KEY=VALUE pairs")
	return []string{packager, launcher, timeout, showOutput, env}
}

func addProfileFlag(cmd *cobra.Command) string {
	const profile = "profile"
	cmd.PersistentFlags().StringVar(&solsyncFlags.sync.profile, profile, model.DefaultProfile,
		"Only synchronize the bundles configured for this profile")
	return profile
}

func addBatchFlags(cmd *cobra.Command) []string {
	const (
		failFast    = "fail-fast"
		concurrency = "concurrency"
		keepTemp    = "keep-temp"
		tempDir     = "temp-dir"
	)
	cmd.PersistentFlags().BoolVar(&solsyncFlags.sync.failFast, failFast, false,
		"Stop at the first bundle which fails to synchronize")
	cmd.PersistentFlags().IntVar(&solsyncFlags.sync.concurrency, concurrency, 1,
		"The number of bundles synchronized in parallel")
	cmd.PersistentFlags().BoolVar(&solsyncFlags.sync.keepTemp, keepTemp, false,
		"Keep the temporary archives and folders of each bundle, for troubleshooting")
	cmd.PersistentFlags().StringVar(&solsyncFlags.sync.tempDir, tempDir, "",
		"The folder holding temporary archives and folders (defaults to the system temporary folder)")
	return []string{failFast, concurrency, keepTemp, tempDir}
}

func addPollFlags(cmd *cobra.Command) []string {
	const (
		interval    = "poll-interval"
		timeout     = "import-timeout"
		maxFailures = "max-poll-failures"
	)
	cmd.PersistentFlags().DurationVar(&solsyncFlags.poll.interval, interval, poller.DefaultInterval,
		"The interval between two queries of the status of an import")
	cmd.PersistentFlags().DurationVar(&solsyncFlags.poll.timeout, timeout, poller.DefaultTimeout,
		"The maximum duration of an import")
	cmd.PersistentFlags().IntVar(&solsyncFlags.poll.maxFailures, maxFailures, 0,
		"The number of successive failed status queries tolerated during an import (0 means no limit)")
	return []string{interval, timeout, maxFailures}
}
