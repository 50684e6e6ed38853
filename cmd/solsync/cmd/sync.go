package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/oneconcern/solsync/pkg/config"
	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/metrics"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// used to patch over the file system during test
var configFs = afero.NewOsFs()

var unpackCmd = &cobra.Command{
	Use:   "unpack [folder]",
	Short: "Unpack remote bundles into their package folders",
	Long: `Export every configured bundle from the remote environment and unpack it into its package folder.

The content of each package folder is replaced by the unpacked bundle: files which are
no longer part of the bundle are removed.

Configuration files are searched for under the folder given as argument (defaults to the current folder).
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSync(cmd, model.ModeUnpack, args)
	},
}

var importCmd = &cobra.Command{
	Use:     "import [folder]",
	Aliases: []string{"pack"},
	Short:   "Pack package folders and import them as remote bundles",
	Long: `Pack every configured package folder, import it into the remote environment and publish all customizations.

Bundles configured with increment_on_import get their version bumped before packing:
the last segment of the remote version is incremented and written to Other/Solution.xml.

Configuration files are searched for under the folder given as argument (defaults to the current folder).
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSync(cmd, model.ModePackAndUpload, args)
	},
}

func runSync(cmd *cobra.Command, mode model.Mode, args []string) {
	folder := "."
	if len(args) > 0 {
		folder = args[0]
	}

	l, err := dlogger.GetLogger(solsyncFlags.root.logLevel, solsyncFlags.root.logFormat)
	if err != nil {
		wrapFatalln("invalid log level", err)
		return
	}
	defer func() { _ = l.Sync() }()

	configs, err := config.FindConfig(configFs, folder)
	if err != nil {
		wrapFatalln("cannot load bundle configurations", err)
		return
	}

	m := metrics.New()
	orchestrator, err := buildOrchestrator(l, m)
	if err != nil {
		wrapFatalln("cannot set up synchronization", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := orchestrator.Run(ctx, mode, configs)
	printReport(cmd.OutOrStdout(), report)

	if pth := solsyncFlags.root.metricsFile; pth != "" {
		if err = prometheus.WriteToTextfile(pth, m.Registry()); err != nil {
			l.Warn("cannot write metrics", zap.String("path", pth), zap.Error(err))
		}
	}
	if report.Err() != nil {
		osExit(1)
	}
}

func init() {
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(importCmd)
}
