// Package status declares error constants returned by the packager package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrToolNotFound indicates that the packaging tool could not be located
	ErrToolNotFound = errors.New("cannot locate packaging tool")

	// ErrExtract indicates that the packaging tool failed to unpack an archive
	ErrExtract = errors.New("cannot extract archive")

	// ErrPack indicates that the packaging tool failed to pack a tree
	ErrPack = errors.New("cannot pack folder")
)
