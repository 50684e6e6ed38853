// Copyright © 2018 One Concern

package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oneconcern/solsync/pkg/storage"
	"github.com/oneconcern/solsync/pkg/storage/status"
	"github.com/spf13/afero"
)

/* staging area key prefix: objects are written there first, then Rename()d into place,
 * so that an external tool never sees a partially written archive.
 */
const nestedPutStageName = ".put-stage"

// New creates a new staging store rooted at a directory of the file system.
//
// The root directory is created if needed.
func New(fs afero.Fs, root string) (storage.Store, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if err := fs.MkdirAll(filepath.Join(root, nestedPutStageName), 0700); err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return &localFS{
		fs:   afero.NewBasePathFs(fs, root),
		root: root,
	}, nil
}

type localFS struct {
	fs   afero.Fs
	root string
}

func maybeInvalidKey(key string) error {
	const pathSepString = string(os.PathSeparator)
	pathComponents := strings.Split(strings.TrimLeft(key, pathSepString), pathSepString)
	if key == "" || pathComponents[0] == nestedPutStageName || pathComponents[0] == ".." {
		return status.ErrInvalidKey.WrapMessage("key %q conflicts with the staging area", key)
	}
	return nil
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrStorageAPI.Wrap(err)
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists.WrapMessage("%s", key)
	}
	f, err := l.fs.Open(key)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return f, nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	has, err := l.Has(ctx, key)
	if err != nil {
		return err
	}
	if has && exclusive {
		return status.ErrExists.WrapMessage("%s", key)
	}

	staged, err := afero.TempFile(l.fs, nestedPutStageName, "put-")
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	stagedName := staged.Name()
	defer func() {
		_ = l.fs.Remove(stagedName)
	}()

	if _, err = io.Copy(staged, source); err != nil {
		_ = staged.Close()
		return status.ErrStorageAPI.WrapMessage("write record for %q: %v", key, err)
	}
	if err = staged.Close(); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}

	/* Rename() doesn't create directories automatically */
	if dir := filepath.Dir(key); dir != "." {
		if err = l.fs.MkdirAll(dir, 0700); err != nil {
			return status.ErrStorageAPI.WrapMessage("ensuring directories for %q: %v", key, err)
		}
	}
	if err = l.fs.Rename(stagedName, key); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = string(os.PathSeparator)
	var res []string
	e := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == nestedPutStageName {
				return filepath.SkipDir
			}
			return nil
		}
		res = append(res, strings.TrimPrefix(path, root))
		return nil
	})
	if e != nil {
		return nil, status.ErrStorageAPI.Wrap(e)
	}
	return res, nil
}

// Clear removes every object, keeping the staging area itself
func (l *localFS) Clear(ctx context.Context) error {
	entries, err := afero.ReadDir(l.fs, string(os.PathSeparator))
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	for _, entry := range entries {
		if entry.Name() == nestedPutStageName {
			continue
		}
		if err := l.fs.RemoveAll(entry.Name()); err != nil {
			return status.ErrStorageAPI.Wrap(err)
		}
	}
	return nil
}

func (l *localFS) Path(key string) string {
	return filepath.Join(l.root, key)
}

func (l *localFS) String() string {
	return "localfs@" + l.root
}
