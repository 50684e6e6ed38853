package core

import (
	"context"
	"path/filepath"

	"github.com/oneconcern/solsync/pkg/errors"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/oneconcern/solsync/pkg/remote/status"
	"github.com/oneconcern/solsync/pkg/storage"
	"go.uber.org/zap"
)

const (
	exportArchive = "export.zip"
	importArchive = "import.zip"
	unpackedTree  = "unpacked"
)

// resolve the remote identity of a bundle: a bundle missing remotely is a configuration error
func (o *Orchestrator) resolve(ctx context.Context, bundle model.BundleConfig) (model.BundleIdentity, error) {
	identity, err := o.repo.Resolve(ctx, bundle.UniqueName)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return identity, &ConfigurationError{Bundle: bundle.UniqueName, Err: err}
		}
		return identity, err
	}
	return identity, nil
}

// Unpack pulls a bundle from the remote service and replaces its package folder with the unpacked content.
//
// The package folder is only removed once the archive has been successfully extracted.
func (o *Orchestrator) Unpack(ctx context.Context, cfg model.ConfigFile, bundle model.BundleConfig) (identity model.BundleIdentity, err error) {
	folder := cfg.PackageFolder(bundle)
	l := o.l.With(zap.String("bundle", bundle.UniqueName), zap.String("mode", model.ModeUnpack.String()))

	span, ctx := o.startCycle(ctx, model.ModeUnpack, bundle)
	defer func() { finishCycle(span, err) }()

	unlock := o.lockFolder(folder)
	defer unlock()

	identity, err = o.resolve(ctx, bundle)
	if err != nil {
		return identity, err
	}
	l.Info("unpacking bundle", zap.String("version", identity.Version), zap.String("folder", folder))

	archive, err := o.repo.ExportArchive(ctx, identity.UniqueName)
	if err != nil {
		return identity, err
	}

	dir, store, cleanup, err := o.stage(ctx, l)
	if err != nil {
		return identity, err
	}
	defer cleanup()

	if err = storage.PutBytes(ctx, store, exportArchive, archive, storage.NoOverWrite); err != nil {
		return identity, err
	}

	unpacked := filepath.Join(dir, unpackedTree)
	if err = o.packager.Extract(ctx, store.Path(exportArchive), unpacked); err != nil {
		return identity, err
	}

	stats, err := o.syncer.Replace(unpacked, folder)
	if err != nil {
		return identity, err
	}
	l.Info("bundle unpacked", zap.String("folder", folder), zap.Stringer("content", stats))
	return identity, nil
}
