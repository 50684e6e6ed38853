// Package treesync copies unpacked bundle trees into and out of a working folder.
package treesync

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	units "github.com/docker/go-units"
	"github.com/oneconcern/solsync/pkg/dlogger"
	"github.com/oneconcern/solsync/pkg/treesync/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Stats about a completed sync
type Stats struct {
	Files int
	Dirs  int
	Bytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files, %d directories, %s", s.Files, s.Dirs, units.HumanSize(float64(s.Bytes)))
}

// Syncer mirrors directory trees on a file system
type Syncer struct {
	fs afero.Fs
	l  *zap.Logger
}

// Option for a Syncer
type Option func(*Syncer)

// Fs sets the file system to operate on
func Fs(fs afero.Fs) Option {
	return func(s *Syncer) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// Logger for the Syncer
func Logger(l *zap.Logger) Option {
	return func(s *Syncer) {
		if l != nil {
			s.l = l
		}
	}
}

// New Syncer, on the OS file system unless specified otherwise
func New(opts ...Option) *Syncer {
	s := &Syncer{
		fs: afero.NewOsFs(),
		l:  dlogger.OrNop(nil),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

// Replace removes dst entirely, then mirrors src onto it.
//
// The source is validated first: dst is left untouched when src is missing.
func (s *Syncer) Replace(src, dst string) (Stats, error) {
	if err := s.checkSource(src); err != nil {
		return Stats{}, err
	}
	if err := s.fs.RemoveAll(dst); err != nil {
		return Stats{}, status.ErrSync.Wrap(err)
	}
	s.l.Debug("removed destination tree", zap.String("destination", dst))
	return s.Mirror(src, dst, true)
}

// Mirror copies every file from src into dst, creating dst if needed.
//
// A destination file with the same content is left as is, so that mirroring twice is a no-op.
// A destination file with a different content is never overwritten.
// When recursive is false, only the top-level files are copied.
func (s *Syncer) Mirror(src, dst string, recursive bool) (Stats, error) {
	if err := s.checkSource(src); err != nil {
		return Stats{}, err
	}

	var stats Stats
	if err := s.mirror(src, dst, recursive, &stats); err != nil {
		return stats, err
	}
	s.l.Info("mirrored tree",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Stringer("stats", stats),
	)
	return stats, nil
}

func (s *Syncer) checkSource(src string) error {
	fi, err := s.fs.Stat(src)
	if err != nil || !fi.IsDir() {
		return &SourceMissingError{Path: src}
	}
	return nil
}

func (s *Syncer) mirror(src, dst string, recursive bool, stats *Stats) error {
	fi, err := s.fs.Stat(src)
	if err != nil {
		return status.ErrSync.Wrap(err)
	}
	if err = s.fs.MkdirAll(dst, fi.Mode().Perm()); err != nil {
		return status.ErrSync.Wrap(err)
	}
	stats.Dirs++

	entries, err := afero.ReadDir(s.fs, src)
	if err != nil {
		return status.ErrSync.Wrap(err)
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if !recursive {
				continue
			}
			if err = s.mirror(from, to, recursive, stats); err != nil {
				return err
			}
			continue
		}
		n, err := s.copyFile(from, to, entry)
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += n
	}
	return nil
}

func (s *Syncer) copyFile(from, to string, info os.FileInfo) (int64, error) {
	if existing, err := s.fs.Stat(to); err == nil {
		same, err := s.sameContent(from, to, info, existing)
		if err != nil {
			return 0, status.ErrSync.Wrap(err)
		}
		if !same {
			return 0, status.ErrDestinationExists.WrapMessage("%s", to)
		}
		return info.Size(), nil
	}

	source, err := s.fs.Open(from)
	if err != nil {
		return 0, status.ErrSync.Wrap(err)
	}
	defer func() {
		_ = source.Close()
	}()

	target, err := s.fs.OpenFile(to, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return 0, status.ErrSync.Wrap(err)
	}
	n, err := io.Copy(target, source)
	if err != nil {
		_ = target.Close()
		return n, status.ErrSync.Wrap(err)
	}
	if err = target.Close(); err != nil {
		return n, status.ErrSync.Wrap(err)
	}
	return n, nil
}

func (s *Syncer) sameContent(from, to string, src, dst os.FileInfo) (bool, error) {
	if dst.IsDir() || src.Size() != dst.Size() {
		return false, nil
	}
	a, err := afero.ReadFile(s.fs, from)
	if err != nil {
		return false, err
	}
	b, err := afero.ReadFile(s.fs, to)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}
