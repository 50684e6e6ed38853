// Package status declares error constants returned by the process package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrLaunch indicates that the external tool could not be started
	ErrLaunch = errors.New("cannot launch external tool")

	// ErrExternalTool indicates that the external tool exited with a non-zero code
	ErrExternalTool = errors.New("external tool failed")

	// ErrTimeout indicates that the external tool ran past its deadline and was killed
	ErrTimeout = errors.New("external tool timed out")

	// ErrInterrupted indicates that the caller cancelled the run
	ErrInterrupted = errors.New("external tool run interrupted")
)
