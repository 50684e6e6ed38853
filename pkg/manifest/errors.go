package manifest

import (
	"fmt"

	"github.com/oneconcern/solsync/pkg/manifest/status"
)

// ManifestStructureError reports a manifest without the expected element.
//
// The manifest is not modified when this error is returned.
type ManifestStructureError struct {
	Path    string
	Element string
}

func (e *ManifestStructureError) Error() string {
	return fmt.Sprintf("%v: no %q element found in %s", status.ErrManifestStructure, e.Element, e.Path)
}

// Is matches status.ErrManifestStructure
func (e *ManifestStructureError) Is(target error) bool {
	return target == status.ErrManifestStructure
}
