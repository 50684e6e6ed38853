// Package status declares error constants returned by the config package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrNoConfig indicates that no bundle configuration file was found
	ErrNoConfig = errors.New("no configuration file found")

	// ErrInvalidConfig indicates that a configuration file cannot be used
	ErrInvalidConfig = errors.New("invalid configuration file")
)
