// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solsync",
	Short: "solsync keeps solution packages in source control in sync with a remote environment",
	Long: `solsync moves customization bundles (solutions) back and forth between a remote environment
and their unpacked form on disk, where they may be versioned.

Bundles are declared in spkl.json files, searched for recursively from the folder given to a command.
Each entry maps the unique name of a remote bundle to a package folder, relative to the configuration file.

The packaging tool (SolutionPackager.exe) converts archives to folders and back.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevel(rootCmd)
	addLogFormat(rootCmd)
	addMetricsFileFlag(rootCmd)
	addURLFlag(rootCmd)
	addTokenFlag(rootCmd)
	addCredentialFlags(rootCmd)
	addAPIVersionFlag(rootCmd)
	addRequestFlags(rootCmd)
	addPackagerFlags(rootCmd)
	addProfileFlag(rootCmd)
	addBatchFlags(rootCmd)
	addPollFlags(rootCmd)
}
