// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/solsync/pkg/errors"
)

var (
	// ErrConfiguration indicates that a bundle cannot be synchronized as configured
	ErrConfiguration = errors.New("configuration error")

	// ErrInterrupted signals that the run has been interrupted before the cycle started
	ErrInterrupted = errors.New("sync run interrupted")

	// ErrUnknownMode indicates an unsupported synchronization mode
	ErrUnknownMode = errors.New("unknown sync mode")

	// ErrStaging indicates a failure to prepare or clean the temporary area of a cycle
	ErrStaging = errors.New("cannot stage archive")

	// ErrIncomplete indicates that the remote import did not succeed
	ErrIncomplete = errors.New("import did not succeed")
)
