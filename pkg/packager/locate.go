package packager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kardianos/osext"
	"github.com/oneconcern/solsync/pkg/packager/status"
	"github.com/spf13/afero"
)

// ToolName is the executable searched for when no explicit location is configured
const ToolName = "SolutionPackager.exe"

var executableFolder func() (string, error)

func init() {
	executableFolder = osext.ExecutableFolder
}

// ToolNotFoundError is returned when the packaging tool cannot be located
type ToolNotFoundError struct {
	Name       string
	SearchRoot string
}

func (e *ToolNotFoundError) Error() string {
	if e.SearchRoot == "" {
		return fmt.Sprintf("%v: %s", status.ErrToolNotFound, e.Name)
	}
	return fmt.Sprintf("%v: no %s under %s", status.ErrToolNotFound, e.Name, e.SearchRoot)
}

// Is matches status.ErrToolNotFound
func (e *ToolNotFoundError) Is(target error) bool {
	return target == status.ErrToolNotFound
}

// Resolve the packaging tool: an explicit location wins, otherwise the tool is searched
// for from the folder of the running executable.
func Resolve(fs afero.Fs, explicit string) (string, error) {
	if explicit != "" {
		fi, err := fs.Stat(explicit)
		if err != nil || fi.IsDir() {
			return "", &ToolNotFoundError{Name: explicit}
		}
		return explicit, nil
	}

	start, err := executableFolder()
	if err != nil {
		return "", status.ErrToolNotFound.Wrap(err)
	}
	return Locate(fs, start, ToolName)
}

// Locate searches for an executable installed alongside the running program.
//
// The search walks two levels up from start (three when start is a bin/Debug or
// bin/Release build folder), then down recursively. Names are compared case-insensitively.
func Locate(fs afero.Fs, start, name string) (string, error) {
	root := filepath.Clean(start)
	if isBuildFolder(root) {
		root = filepath.Dir(root)
	}
	root = filepath.Dir(filepath.Dir(root))

	errFound := fmt.Errorf("found")
	var found string
	err := afero.Walk(fs, root, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			// unreadable folders are skipped
			if info != nil && info.IsDir() && pth != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && strings.EqualFold(info.Name(), name) {
			found = pth
			return errFound
		}
		return nil
	})
	if found != "" {
		return found, nil
	}
	if err != nil && err != errFound {
		return "", status.ErrToolNotFound.Wrap(err)
	}
	return "", &ToolNotFoundError{Name: name, SearchRoot: root}
}

func isBuildFolder(dir string) bool {
	slashed := filepath.ToSlash(dir)
	for _, build := range []string{"bin/Debug", "bin/Release"} {
		if strings.Contains(slashed, build) {
			return true
		}
	}
	return false
}
