package packager

import (
	"path/filepath"
	"testing"

	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/packager/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func install(t *testing.T, fs afero.Fs, files ...string) {
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("MZ"), 0o755))
	}
}

func TestLocate(t *testing.T) {
	fs := afero.NewMemMapFs()
	install(t, fs,
		"/repo/packages/spkl.1.0.0/tools/spkl.exe",
		"/repo/packages/Microsoft.CrmSdk.CoreTools.9.1/content/bin/coretools/SolutionPackager.exe",
	)

	found, err := Locate(fs, "/repo/packages/spkl.1.0.0/tools", ToolName)
	require.NoError(t, err)
	assert.Equal(t, "/repo/packages/Microsoft.CrmSdk.CoreTools.9.1/content/bin/coretools/SolutionPackager.exe", filepath.ToSlash(found))
}

func TestLocateFromBuildFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	install(t, fs, "/src/packages/coretools/solutionpackager.exe")

	// one extra level is skipped for build output folders
	found, err := Locate(fs, "/src/spkl/bin/Debug", ToolName)
	require.NoError(t, err)
	assert.Equal(t, "/src/packages/coretools/solutionpackager.exe", filepath.ToSlash(found))

	_, err = Locate(fs, "/src/spkl/out/Debug", ToolName)
	require.Error(t, err)
}

func TestLocateNotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	install(t, fs, "/repo/packages/spkl/tools/spkl.exe")

	_, err := Locate(fs, "/repo/packages/spkl/tools", ToolName)
	require.Error(t, err)
	var notFound *ToolNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, ToolName, notFound.Name)
	assert.Equal(t, "/repo/packages", filepath.ToSlash(notFound.SearchRoot))
	assert.True(t, errors.Is(err, status.ErrToolNotFound))
}

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	install(t, fs,
		"/opt/tools/SolutionPackager.exe",
		"/opt/spkl/a/b/bin/x",
		"/opt/spkl/other/SolutionPackager.exe",
	)

	found, err := Resolve(fs, "/opt/tools/SolutionPackager.exe")
	require.NoError(t, err)
	assert.Equal(t, "/opt/tools/SolutionPackager.exe", found)

	_, err = Resolve(fs, "/opt/tools")
	assert.True(t, errors.Is(err, status.ErrToolNotFound))

	saved := executableFolder
	defer func() { executableFolder = saved }()
	executableFolder = func() (string, error) { return "/opt/spkl/a/b", nil }

	found, err = Resolve(fs, "")
	require.NoError(t, err)
	assert.Equal(t, "/opt/spkl/other/SolutionPackager.exe", filepath.ToSlash(found))
}
