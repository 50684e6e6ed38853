// Package status declares error constants returned by the manifest package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrManifestStructure indicates that the manifest does not have the expected layout
	ErrManifestStructure = errors.New("unexpected manifest structure")

	// ErrManifestRead indicates that the manifest could not be read
	ErrManifestRead = errors.New("cannot read manifest")

	// ErrManifestWrite indicates that the manifest could not be written back
	ErrManifestWrite = errors.New("cannot write manifest")
)
