// Copyright © 2018 One Concern

// Package storage provides an interface to stage bundle archives.
//
// Archives exported from the remote service, or produced by the packaging tool,
// are held in a staging area for the duration of a sync cycle.
//
// This package supports the following backends:
//   - local file system (any afero.Fs)
package storage
