package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/oneconcern/solsync/pkg/core"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true
	started := time.Now()
	report := core.Report{
		Mode: model.ModeUnpack,
		Results: []core.CycleResult{
			{
				Config:   "/work",
				Bundle:   model.NewBundleConfig(model.UniqueName("contoso"), model.PackagePath("contoso")),
				Identity: model.BundleIdentity{UniqueName: "contoso", Version: "1.0.0.7"},
				Started:  started,
				Finished: started.Add(3 * time.Second),
			},
			{
				Config:     "/work",
				Bundle:     model.NewBundleConfig(model.UniqueName("fabrikam"), model.PackagePath("fabrikam")),
				Err:        errors.New("cannot extract archive"),
				ToolOutput: []string{"Processing Component: Entities", "Error: invalid mapping"},
				Started:    started,
				Finished:   started.Add(time.Second),
			},
			{
				Config:     "/work",
				Bundle:     model.NewBundleConfig(model.UniqueName("northwind"), model.PackagePath("northwind")),
				Err:        errors.New("sync run interrupted"),
				Skipped:    true,
				ToolOutput: []string{"not shown"},
			},
		},
	}

	var out bytes.Buffer
	printReport(&out, report)
	text := out.String()

	assert.Contains(t, text, "1.0.0.7")
	assert.Contains(t, text, "skipped")
	assert.Contains(t, text, "fabrikam: cannot extract archive\n    Processing Component: Entities\n    Error: invalid mapping\n")
	assert.NotContains(t, text, "not shown")
	assert.Contains(t, text, "unpack: 3 bundle(s), 1 failed, 1 skipped")
}
