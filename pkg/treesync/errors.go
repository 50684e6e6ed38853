package treesync

import (
	"fmt"

	"github.com/oneconcern/solsync/pkg/treesync/status"
)

// SourceMissingError is returned before any change is made to the destination
type SourceMissingError struct {
	Path string
}

func (e *SourceMissingError) Error() string {
	return fmt.Sprintf("%v: %s", status.ErrSourceMissing, e.Path)
}

// Is matches status.ErrSourceMissing
func (e *SourceMissingError) Is(target error) bool {
	return target == status.ErrSourceMissing
}
