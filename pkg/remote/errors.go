package remote

import (
	"fmt"

	"github.com/oneconcern/solsync/pkg/remote/status"
)

// NotFoundError is returned when no bundle has the requested unique name
type NotFoundError struct {
	UniqueName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("solution unique name %q does not exist", e.UniqueName)
}

// Is matches status.ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == status.ErrNotFound
}
