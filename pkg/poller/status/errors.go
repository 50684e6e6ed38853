// Package status declares error constants returned by the poller package.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrImportTimeout indicates that the job did not reach a terminal state before the deadline
	ErrImportTimeout = errors.New("import did not complete in time")

	// ErrImportFailed indicates that the job reached the failure state
	ErrImportFailed = errors.New("import failed")

	// ErrTooManyTransientFailures indicates that the job status could not be queried for too long
	ErrTooManyTransientFailures = errors.New("too many consecutive failures querying the import status")

	// ErrInterrupted indicates that the caller stopped waiting
	ErrInterrupted = errors.New("stopped waiting for import")
)
