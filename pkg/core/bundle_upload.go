package core

import (
	"context"

	"github.com/oneconcern/solsync/pkg/core/status"
	"github.com/oneconcern/solsync/pkg/manifest"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/storage"
	"go.uber.org/zap"
)

// PackAndUpload packs the package folder of a bundle, imports it and publishes all customizations.
//
// When the bundle is configured so, the build segment of the remote version is incremented
// into the manifest before packing, so that the imported bundle always carries a newer version.
// The returned identity carries the version which has been imported: the incremented one, or else
// the one declared by the manifest of the package folder.
func (o *Orchestrator) PackAndUpload(ctx context.Context, cfg model.ConfigFile, bundle model.BundleConfig) (identity model.BundleIdentity, err error) {
	folder := cfg.PackageFolder(bundle)
	l := o.l.With(zap.String("bundle", bundle.UniqueName), zap.String("mode", model.ModePackAndUpload.String()))

	span, ctx := o.startCycle(ctx, model.ModePackAndUpload, bundle)
	defer func() { finishCycle(span, err) }()

	unlock := o.lockFolder(folder)
	defer unlock()

	identity, err = o.resolve(ctx, bundle)
	if err != nil {
		return identity, err
	}
	l.Info("packing bundle", zap.String("remote version", identity.Version), zap.String("folder", folder))

	manifestPath := manifest.SolutionManifestPath(folder)
	if bundle.IncrementOnImport {
		next, err := o.editor.IncrementBuildSegment(manifestPath, identity.Version)
		if err != nil {
			return identity, err
		}
		identity.Version = next
	} else if local, err := o.editor.ReadVersion(manifestPath); err == nil {
		identity.Version = local
	} else {
		l.Warn("cannot read the version of the package folder", zap.String("manifest", manifestPath), zap.Error(err))
	}

	_, store, cleanup, err := o.stage(ctx, l)
	if err != nil {
		return identity, err
	}
	defer cleanup()

	if err = o.packager.Pack(ctx, store.Path(importArchive), folder); err != nil {
		return identity, err
	}
	archive, err := storage.ReadAll(ctx, store, importArchive)
	if err != nil {
		return identity, err
	}

	handle, err := o.repo.SubmitImport(ctx, archive)
	if err != nil {
		return identity, err
	}
	l.Info("import started", zap.Stringer("job", handle.JobID))

	outcome, err := o.poller.AwaitCompletion(ctx, handle)
	if err != nil {
		return identity, err
	}
	if outcome.State != model.JobSucceeded {
		return identity, status.ErrIncomplete.WrapMessage("import %s: %s", outcome.State, outcome.Message)
	}

	if err = o.repo.PublishAll(ctx); err != nil {
		return identity, err
	}
	l.Info("bundle imported and published", zap.String("version", identity.Version))
	return identity, nil
}
