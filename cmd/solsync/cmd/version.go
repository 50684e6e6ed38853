package cmd

import (
	"github.com/gosuri/uitable"
	"github.com/oneconcern/solsync/pkg/packager"
	"github.com/oneconcern/solsync/pkg/remote/webapi"
	"github.com/spf13/cobra"
)

// Set at build time, e.g. -ldflags "-X github.com/oneconcern/solsync/cmd/solsync/cmd.Version=v1.2.0"
var (
	Version   string
	GitCommit string
)

// setup solsync runs with: its build, the packaging tool it would use and the remote API version
type setup struct {
	Version    string
	GitCommit  string
	Packager   string
	APIVersion string
}

func currentSetup() setup {
	s := setup{
		Version:    "dev",
		GitCommit:  GitCommit,
		APIVersion: webapi.DefaultAPIVersion,
	}
	if Version != "" {
		s.Version = Version
	}
	if solsyncFlags.remote.apiVersion != "" {
		s.APIVersion = solsyncFlags.remote.apiVersion
	}
	if tool, err := packager.Resolve(configFs, solsyncFlags.packager.path); err == nil {
		s.Packager = tool
	} else {
		s.Packager = "not found"
	}
	return s
}

func (s setup) String() string {
	table := uitable.New()
	table.AddRow("Version:", s.Version)
	if s.GitCommit != "" {
		table.AddRow("Commit:", s.GitCommit)
	}
	table.AddRow("Packaging tool:", s.Packager)
	table.AddRow("Web API:", s.APIVersion)
	return table.String() + "\n"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of solsync and the tools it runs with",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = logStdOut("%s", currentSetup())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
