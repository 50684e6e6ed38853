package config

import (
	"path/filepath"
	"testing"

	"github.com/oneconcern/solsync/pkg/config/status"
	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonConfig = `{
  "solutions": [
    {"solution_uniquename": "contoso", "packagepath": "package", "increment_on_import": true},
    {"profile": "ci,release", "solution_uniquename": "fabrikam", "packagepath": "../fabrikam"}
  ],
  "webresources": []
}`

const yamlConfig = `
solutions:
  - solution_uniquename: northwind
    packagepath: src/package
`

func write(t *testing.T, fs afero.Fs, pth, content string) {
	require.NoError(t, fs.MkdirAll(filepath.Dir(pth), 0o755))
	require.NoError(t, afero.WriteFile(fs, pth, []byte(content), 0o644))
}

func TestFindConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/repo/crm/spkl.json", jsonConfig)
	write(t, fs, "/repo/other/deep/spkl.json", yamlConfig)
	write(t, fs, "/repo/node_modules/lib/spkl.json", `not: [valid`)
	write(t, fs, "/repo/crm/bin/Debug/spkl.json", `not: [valid`)

	configs, err := FindConfig(fs, "/repo")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "/repo/crm", filepath.ToSlash(configs[0].Path))
	require.Len(t, configs[0].Solutions, 2)
	assert.Equal(t, model.NewBundleConfig(
		model.UniqueName("contoso"),
		model.PackagePath("package"),
		model.IncrementOnImport(true),
	), configs[0].Solutions[0])
	assert.Equal(t, "ci,release", configs[0].Solutions[1].Profile)

	assert.Equal(t, "/repo/other/deep", filepath.ToSlash(configs[1].Path))
	assert.Equal(t, "northwind", configs[1].Solutions[0].UniqueName)
	assert.Equal(t, "/repo/other/deep/src/package", filepath.ToSlash(configs[1].PackageFolder(configs[1].Solutions[0])))

	// profile selection
	assert.Len(t, configs[0].SolutionConfigs(""), 1)
	assert.Len(t, configs[0].SolutionConfigs("release"), 1)
	assert.Equal(t, "fabrikam", configs[0].SolutionConfigs("CI")[0].UniqueName)
}

func TestFindConfigNone(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/repo/readme.md", "#")

	_, err := FindConfig(fs, "/repo")
	assert.True(t, errors.Is(err, status.ErrNoConfig))

	_, err = FindConfig(fs, "/missing")
	assert.True(t, errors.Is(err, status.ErrNoConfig))
}

func TestLoadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/a/spkl.json", `{"solutions": [{"packagepath": "x"}]}`)
	write(t, fs, "/b/spkl.json", `{"solutions": [{"solution_uniquename": "x"}]}`)
	write(t, fs, "/c/spkl.json", `{"solutions": `)

	for _, pth := range []string{"/a/spkl.json", "/b/spkl.json", "/c/spkl.json", "/d/spkl.json"} {
		_, err := Load(fs, pth)
		assert.Truef(t, errors.Is(err, status.ErrInvalidConfig), "expected invalid config for %s", pth)
	}
}
