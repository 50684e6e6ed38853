package remote

import (
	"context"

	units "github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/remote/status"
	"go.uber.org/zap"
)

// Repository of bundles held by the remote service
type Repository struct {
	svc   Service
	l     *zap.Logger
	newID func() uuid.UUID
}

// RepositoryOption for a Repository
type RepositoryOption func(*Repository)

// RepositoryLogger sets the logger of the repository
func RepositoryLogger(l *zap.Logger) RepositoryOption {
	return func(r *Repository) {
		if l != nil {
			r.l = l
		}
	}
}

// ImportJobIDs sets the generator of import correlation ids
func ImportJobIDs(gen func() uuid.UUID) RepositoryOption {
	return func(r *Repository) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// NewRepository on top of a service
func NewRepository(svc Service, opts ...RepositoryOption) *Repository {
	r := &Repository{
		svc:   svc,
		l:     dlogger.OrNop(nil),
		newID: uuid.New,
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// Resolve the current identity of a bundle, by exact unique name
func (r *Repository) Resolve(ctx context.Context, uniqueName string) (model.BundleIdentity, error) {
	found, err := r.svc.QueryBundles(ctx, uniqueName)
	if err != nil {
		return model.BundleIdentity{}, err
	}
	if len(found) == 0 {
		return model.BundleIdentity{}, &NotFoundError{UniqueName: uniqueName}
	}
	r.l.Debug("resolved bundle", zap.String("bundle", uniqueName), zap.String("version", found[0].Version))
	return found[0], nil
}

// ExportArchive exports an unmanaged archive of the bundle, without any optional settings
func (r *Repository) ExportArchive(ctx context.Context, uniqueName string) ([]byte, error) {
	resp, err := r.svc.Execute(ctx, ExportCommand{
		SolutionName: uniqueName,
		Settings:     ExportSettings{},
		Managed:      false,
	})
	if err != nil {
		return nil, err
	}
	export, ok := resp.(ExportResponse)
	if !ok {
		return nil, status.ErrUnexpectedResponse.WrapMessage("expected an export response, got %T", resp)
	}
	r.l.Info("exported bundle", zap.String("bundle", uniqueName), zap.String("size", units.HumanSize(float64(len(export.File)))))
	return export.File, nil
}

// SubmitImport starts an asynchronous import of the archive.
//
// Unmanaged customizations are overwritten and workflows published. Each call uses a new import job id.
func (r *Repository) SubmitImport(ctx context.Context, archive []byte) (model.AsyncJobHandle, error) {
	importID := r.newID()
	resp, err := r.svc.ExecuteAsync(ctx, ImportCommand{
		CustomizationFile:  archive,
		OverwriteUnmanaged: true,
		PublishWorkflows:   true,
		ImportJobID:        importID,
	})
	if err != nil {
		return model.AsyncJobHandle{}, err
	}
	handle := model.AsyncJobHandle{JobID: resp.JobID, ImportJobID: importID}
	r.l.Info("import submitted", zap.Stringer("job", handle.JobID), zap.Stringer("import job", importID))
	return handle, nil
}

// PublishAll publishes all customizations
func (r *Repository) PublishAll(ctx context.Context) error {
	resp, err := r.svc.Execute(ctx, PublishAllCommand{})
	if err != nil {
		return err
	}
	if _, ok := resp.(EmptyResponse); !ok {
		return status.ErrUnexpectedResponse.WrapMessage("expected an empty response, got %T", resp)
	}
	return nil
}

// JobStatus of an asynchronous job
func (r *Repository) JobStatus(ctx context.Context, handle model.AsyncJobHandle) (JobStatus, error) {
	return r.svc.JobStatus(ctx, handle.JobID)
}
