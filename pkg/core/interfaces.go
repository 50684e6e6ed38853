package core

import (
	"context"

	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/treesync"
)

// Repository of bundles on the remote service
type Repository interface {
	Resolve(context.Context, string) (model.BundleIdentity, error)
	ExportArchive(context.Context, string) ([]byte, error)
	SubmitImport(context.Context, []byte) (model.AsyncJobHandle, error)
	PublishAll(context.Context) error
}

// Packager converts archives to folders and back
type Packager interface {
	Extract(ctx context.Context, zip, folder string) error
	Pack(ctx context.Context, zip, folder string) error
}

// Syncer replaces a folder with the content of another
type Syncer interface {
	Replace(src, dst string) (treesync.Stats, error)
}

// Editor reads and increments the version declared by a manifest
type Editor interface {
	ReadVersion(manifestPath string) (string, error)
	IncrementBuildSegment(manifestPath, currentVersion string) (string, error)
}

// Poller waits for a remote job to complete
type Poller interface {
	AwaitCompletion(context.Context, model.AsyncJobHandle) (model.AsyncJobOutcome, error)
}
