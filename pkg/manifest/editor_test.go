package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/manifest/status"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const solutionXML = `<?xml version="1.0" encoding="utf-8"?>
<ImportExportXml version="9.0.0.2090" SolutionPackageVersion="9.0" languagecode="1033">
  <!-- exported -->
  <SolutionManifest>
    <UniqueName>contoso</UniqueName>
    <LocalizedNames>
      <LocalizedName description="Contoso &amp; Co" languagecode="1033" />
    </LocalizedNames>
    <Descriptions />
    <Version>1.0.0.7</Version>
    <Managed>0</Managed>
  </SolutionManifest>
</ImportExportXml>
`

func writeManifest(t *testing.T, fs afero.Fs, content string) string {
	pth := SolutionManifestPath("/work/pkg/contoso")
	require.NoError(t, fs.MkdirAll(filepath.Dir(pth), 0o755))
	require.NoError(t, afero.WriteFile(fs, pth, []byte(content), 0o640))
	return pth
}

func TestSolutionManifestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("pkg", "Other", "Solution.xml"), SolutionManifestPath("pkg"))
}

func TestIncrementBuildSegment(t *testing.T) {
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, solutionXML)
	e := New(Fs(fs))

	next, err := e.IncrementBuildSegment(pth, "1.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.8", next)

	content, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	expected := strings.Replace(solutionXML, "<Version>1.0.0.7</Version>", "<Version>1.0.0.8</Version>", 1)
	assert.Equal(t, expected, string(content), "only the version text should change")

	version, err := e.ReadVersion(pth)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.8", version)

	fi, err := fs.Stat(pth)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())

	// no temporary file left behind
	entries, err := afero.ReadDir(fs, filepath.Dir(pth))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIncrementUsesGivenVersion(t *testing.T) {
	// the remote version wins over whatever the tree declares
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, solutionXML)

	next, err := New(Fs(fs)).IncrementBuildSegment(pth, "2.3.41")
	require.NoError(t, err)
	assert.Equal(t, "2.3.42", next)

	version, err := New(Fs(fs)).ReadVersion(pth)
	require.NoError(t, err)
	assert.Equal(t, "2.3.42", version)
}

func TestIncrementBadVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, solutionXML)

	_, err := New(Fs(fs)).IncrementBuildSegment(pth, "1.0.0.x")
	require.Error(t, err)
	var verr *model.VersionFormatError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "1.0.0.x", verr.Version)

	content, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	assert.Equal(t, solutionXML, string(content))
}

func TestIncrementMissingElement(t *testing.T) {
	fs := afero.NewMemMapFs()
	const noVersion = `<ImportExportXml><SolutionManifest><UniqueName>contoso</UniqueName></SolutionManifest></ImportExportXml>`
	pth := writeManifest(t, fs, noVersion)

	_, err := New(Fs(fs)).IncrementBuildSegment(pth, "1.0")
	require.Error(t, err)
	var serr *ManifestStructureError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, VersionElement, serr.Element)
	assert.Equal(t, pth, serr.Path)
	assert.True(t, errors.Is(err, status.ErrManifestStructure))

	content, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	assert.Equal(t, noVersion, string(content))
}

func TestIncrementRootElementNotMatched(t *testing.T) {
	// the root element itself is never taken for the version
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, `<Version><Other>1</Other></Version>`)

	_, err := New(Fs(fs)).IncrementBuildSegment(pth, "1.0")
	assert.True(t, errors.Is(err, status.ErrManifestStructure))
}

func TestIncrementSkipsNamespacedElements(t *testing.T) {
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs,
		`<Root xmlns:meta="urn:meta"><meta:Version>9</meta:Version><Version>1.0.0.1</Version></Root>`)
	e := New(Fs(fs))

	current, err := e.ReadVersion(pth)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.1", current)

	next, err := e.IncrementBuildSegment(pth, current)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0.2", next)

	content, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	assert.Equal(t, `<Root xmlns:meta="urn:meta"><meta:Version>9</meta:Version><Version>1.0.0.2</Version></Root>`, string(content))
}

func TestIncrementSelfClosing(t *testing.T) {
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, `<Root><Version kind="build"/><Managed>0</Managed></Root>`)

	_, err := New(Fs(fs)).IncrementBuildSegment(pth, "1.9")
	require.NoError(t, err)
	content, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	assert.Equal(t, `<Root><Version kind="build">1.10</Version><Managed>0</Managed></Root>`, string(content))
}

func TestIncrementMissingManifest(t *testing.T) {
	_, err := New(Fs(afero.NewMemMapFs())).IncrementBuildSegment("/nowhere/Solution.xml", "1.0")
	assert.True(t, errors.Is(err, status.ErrManifestRead))
}

func TestIncrementMalformedManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	pth := writeManifest(t, fs, `<Root><Unclosed>`)

	_, err := New(Fs(fs)).IncrementBuildSegment(pth, "1.0")
	assert.True(t, errors.Is(err, status.ErrManifestRead))
}
