// Package status declares error constants returned by the remote package
// and its service implementations.
package status

import "github.com/oneconcern/solsync/pkg/errors"

var (
	// ErrNotFound indicates that the remote service has no such bundle or job
	ErrNotFound = errors.New("not found on remote service")

	// ErrUnauthorized indicates that the remote service rejected the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRemote indicates any other error reported by the remote service
	ErrRemote = errors.New("remote service error")

	// ErrUnexpectedResponse indicates that the remote service answered with an unexpected payload
	ErrUnexpectedResponse = errors.New("unexpected response from remote service")

	// ErrUnsupportedCommand indicates that the service does not know how to execute a command
	ErrUnsupportedCommand = errors.New("unsupported command")
)
