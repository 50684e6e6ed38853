// Package status declares error constants returned by the treesync package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrSourceMissing indicates that the source tree does not exist or is not a directory
	ErrSourceMissing = errors.New("source directory missing")

	// ErrDestinationExists indicates that a mirror would overwrite a different destination file
	ErrDestinationExists = errors.New("destination file exists with a different content")

	// ErrSync indicates an I/O failure while copying a tree
	ErrSync = errors.New("tree sync failed")
)
