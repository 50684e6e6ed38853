// Package manifest reads and updates the version declared by a bundle manifest.
//
// The manifest is rewritten in place: only the text of the version element
// changes, every other byte of the document is preserved.
package manifest

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/manifest/status"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// VersionElement is the name of the element holding the bundle version
	VersionElement = "Version"

	manifestDir  = "Other"
	manifestFile = "Solution.xml"
)

// SolutionManifestPath returns the location of the manifest in an unpacked bundle tree
func SolutionManifestPath(packageFolder string) string {
	return filepath.Join(packageFolder, manifestDir, manifestFile)
}

// Editor updates manifests on a file system
type Editor struct {
	fs afero.Fs
	l  *zap.Logger
}

// Option for the Editor
type Option func(*Editor)

// Fs sets the file system the manifests live on
func Fs(fs afero.Fs) Option {
	return func(e *Editor) {
		if fs != nil {
			e.fs = fs
		}
	}
}

// Logger for the Editor
func Logger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.l = l
		}
	}
}

// New manifest editor, on the OS file system unless specified otherwise
func New(opts ...Option) *Editor {
	e := &Editor{
		fs: afero.NewOsFs(),
		l:  dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// IncrementBuildSegment writes currentVersion, with its last segment incremented, into the manifest.
//
// The version is validated before the manifest is opened.
func (e *Editor) IncrementBuildSegment(manifestPath, currentVersion string) (string, error) {
	next, err := model.IncrementVersion(currentVersion)
	if err != nil {
		return "", err
	}

	content, err := afero.ReadFile(e.fs, manifestPath)
	if err != nil {
		return "", status.ErrManifestRead.Wrap(err)
	}

	loc, err := locateElement(content, VersionElement)
	if err != nil {
		return "", status.ErrManifestRead.Wrap(err)
	}
	if loc.tag < 0 {
		return "", &ManifestStructureError{Path: manifestPath, Element: VersionElement}
	}

	var buf bytes.Buffer
	buf.Grow(len(content) + 2*len(next) + len(VersionElement))
	if loc.selfClosing(content) {
		// <Version/> becomes <Version>next</Version>, attributes kept
		buf.Write(content[:loc.start-2])
		buf.WriteString(">")
		_ = xml.EscapeText(&buf, []byte(next))
		buf.WriteString("</" + VersionElement + ">")
	} else {
		buf.Write(content[:loc.start])
		_ = xml.EscapeText(&buf, []byte(next))
	}
	buf.Write(content[loc.end:])

	if err = e.replace(manifestPath, buf.Bytes()); err != nil {
		return "", status.ErrManifestWrite.Wrap(err)
	}

	e.l.Info("incremented manifest version",
		zap.String("manifest", manifestPath),
		zap.String("from", currentVersion),
		zap.String("to", next),
	)
	return next, nil
}

// ReadVersion returns the version currently declared by the manifest
func (e *Editor) ReadVersion(manifestPath string) (string, error) {
	content, err := afero.ReadFile(e.fs, manifestPath)
	if err != nil {
		return "", status.ErrManifestRead.Wrap(err)
	}
	loc, err := locateElement(content, VersionElement)
	if err != nil {
		return "", status.ErrManifestRead.Wrap(err)
	}
	if loc.tag < 0 {
		return "", &ManifestStructureError{Path: manifestPath, Element: VersionElement}
	}

	var text strings.Builder
	d := xml.NewDecoder(bytes.NewReader(content[loc.start:loc.end]))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", status.ErrManifestRead.Wrap(err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			text.Write(cd)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// replace the file content through a temporary sibling, renamed over the original
func (e *Editor) replace(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := e.fs.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := afero.TempFile(e.fs, filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = e.fs.Remove(tmpName)
	}()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = e.fs.Chmod(tmpName, mode); err != nil {
		return err
	}
	return e.fs.Rename(tmpName, path)
}

// location of an element in a document: tag is the offset of the start tag,
// [start, end) the range of the element's content
type location struct {
	tag        int
	start, end int
}

func (l location) selfClosing(content []byte) bool {
	return l.start == l.end && bytes.HasSuffix(content[:l.start], []byte("/>"))
}

// locateElement finds the first element named name below the document root, outside of any namespace.
// When there is no such element, the returned location has a negative tag offset.
func locateElement(content []byte, name string) (location, error) {
	notFound := location{tag: -1, start: -1, end: -1}
	d := xml.NewDecoder(bytes.NewReader(content))
	depth := 0
	for {
		offset := int(d.InputOffset())
		tok, err := d.Token()
		if err == io.EOF {
			return notFound, nil
		}
		if err != nil {
			return notFound, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > 1 && t.Name.Space == "" && t.Name.Local == name {
				start, end, err := elementContent(d)
				if err != nil {
					return notFound, err
				}
				return location{tag: offset, start: start, end: end}, nil
			}
		case xml.EndElement:
			depth--
		}
	}
}

// elementContent consumes tokens up to the end of the element just opened
func elementContent(d *xml.Decoder) (int, int, error) {
	start := int(d.InputOffset())
	nested := 0
	for {
		end := int(d.InputOffset())
		tok, err := d.Token()
		if err != nil {
			return -1, -1, err
		}
		switch tok.(type) {
		case xml.StartElement:
			nested++
		case xml.EndElement:
			if nested == 0 {
				return start, end, nil
			}
			nested--
		}
	}
}
