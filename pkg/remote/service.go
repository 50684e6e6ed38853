package remote

import (
	"context"

	"github.com/google/uuid"
	"github.com/oneconcern/solsync/pkg/model"
)

// Service is the protocol of the remote service
type Service interface {
	// QueryBundles retrieves the bundles with this exact unique name
	QueryBundles(ctx context.Context, uniqueName string) ([]model.BundleIdentity, error)

	// Execute a command synchronously
	Execute(ctx context.Context, cmd Command) (Response, error)

	// ExecuteAsync starts a job executing the command
	ExecuteAsync(ctx context.Context, cmd Command) (AsyncResponse, error)

	// JobStatus queries the status of a job
	JobStatus(ctx context.Context, jobID uuid.UUID) (JobStatus, error)
}
