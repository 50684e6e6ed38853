package poller

import (
	"fmt"

	"github.com/oneconcern/solsync/pkg/poller/status"
)

// ImportError carries the technical and user-facing messages of a failed job
type ImportError struct {
	Message string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%v: %s", status.ErrImportFailed, e.Message)
}

// Is matches status.ErrImportFailed
func (e *ImportError) Is(target error) bool {
	return target == status.ErrImportFailed
}
