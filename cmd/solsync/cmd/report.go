package cmd

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/solsync/pkg/core"
	"github.com/oneconcern/solsync/pkg/model"
)

const maxColWidth = 60

func outcome(res core.CycleResult) string {
	switch {
	case res.Skipped:
		return color.YellowString("skipped")
	case res.Err != nil:
		return color.RedString("failed")
	default:
		return color.GreenString("ok")
	}
}

// printReport renders a summary of a run, followed by the errors of failed cycles with the last
// lines printed by the packaging tool
func printReport(w io.Writer, report core.Report) {
	table := uitable.New()
	table.MaxColWidth = maxColWidth
	table.AddRow("BUNDLE", "VERSION", "FOLDER", "DURATION", "RESULT")
	for _, res := range report.Results {
		duration := "-"
		if !res.Started.IsZero() {
			duration = units.HumanDuration(res.Duration())
		}
		folder := model.ConfigFile{Path: res.Config}.PackageFolder(res.Bundle)
		table.AddRow(res.Bundle.UniqueName, res.Identity.Version, folder, duration, outcome(res))
	}
	_, _ = fmt.Fprintln(w, table)

	for _, res := range report.Results {
		if res.Err != nil && !res.Skipped {
			_, _ = fmt.Fprintf(w, "%s: %v\n", color.RedString(res.Bundle.UniqueName), res.Err)
			for _, line := range res.ToolOutput {
				_, _ = fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	_, _ = fmt.Fprintf(w, "%s: %d bundle(s), %d failed, %d skipped\n",
		report.Mode, len(report.Results), report.Failed(), report.Skipped())
}
