// Copyright © 2018 One Concern

package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/oneconcern/solsync/pkg/storage/status"
)

// MaxObjectSizeInMemory caps archives read into memory: 2 gigs
const MaxObjectSizeInMemory = 2 * 1024 * 1024 * 1024

const (
	// OverWrite an existing object on Put
	OverWrite = false

	// NoOverWrite fails a Put on an existing object
	NoOverWrite = true
)

// Store implementations know how to keep archives in a staging area.
//
// Path exposes the location of an object, so that external tools may read or write it directly.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
	Path(string) string
}

// ReadAll reads an object into memory
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(reader, MaxObjectSizeInMemory+1))
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	if n > MaxObjectSizeInMemory {
		return nil, status.ErrObjectTooBig.WrapMessage("%s", key)
	}
	return buf.Bytes(), nil
}

// PutBytes writes an object from memory
func PutBytes(ctx context.Context, store Store, key string, content []byte, exclusive bool) error {
	return store.Put(ctx, key, bytes.NewReader(content), exclusive)
}
