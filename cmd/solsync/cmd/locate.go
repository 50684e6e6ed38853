package cmd

import (
	"github.com/oneconcern/solsync/pkg/packager"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print the path to the packaging tool",
	Long: `Print the path to the packaging tool used by the unpack and import commands.

An explicit --packager path wins. Otherwise, the tool is searched for from the folder of the solsync executable.
`,
	Run: func(cmd *cobra.Command, args []string) {
		tool, err := packager.Resolve(configFs, solsyncFlags.packager.path)
		if err != nil {
			wrapFatalln("packaging tool not found", err)
			return
		}
		logStdOut("%s\n", tool)
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
