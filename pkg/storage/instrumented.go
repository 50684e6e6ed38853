// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
)

// Instrument a store with a tracing span and a debug log for every call.
//
// Spans are children of the span found in the context of the call, if any.
func Instrument(tr opentracing.Tracer, l *zap.Logger, store Store) Store {
	if tr == nil {
		tr = opentracing.NoopTracer{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &instrumentedStore{
		tr:    tr,
		store: store,
		l:     l.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store Store
	tr    opentracing.Tracer
	l     *zap.Logger
}

func (i *instrumentedStore) opName(name string) string {
	return strings.Join([]string{"storage", name}, ".")
}

func (i *instrumentedStore) spanFromContext(ctx context.Context, name string) opentracing.Span {
	opts := []opentracing.StartSpanOption{opentracing.Tag{Key: "store", Value: i.store.String()}}
	if parent := opentracing.SpanFromContext(ctx); parent != nil {
		opts = append(opts, opentracing.ChildOf(parent.Context()))
	}
	return i.tr.StartSpan(i.opName(name), opts...)
}

func finish(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
	}
	span.Finish()
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (has bool, err error) {
	span := i.spanFromContext(ctx, "Has")
	defer func() { finish(span, err) }()

	has, err = i.store.Has(ctx, key)
	i.l.Debug("storage has", zap.String("key", key), zap.Bool("has", has), zap.Error(err))
	return has, err
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (rdr io.ReadCloser, err error) {
	span := i.spanFromContext(ctx, "Get")
	defer func() { finish(span, err) }()

	rdr, err = i.store.Get(ctx, key)
	i.l.Debug("storage get", zap.String("key", key), zap.Error(err))
	return rdr, err
}

func (i *instrumentedStore) Put(ctx context.Context, key string, source io.Reader, exclusive bool) (err error) {
	span := i.spanFromContext(ctx, "Put")
	defer func() { finish(span, err) }()
	span.SetTag("key", key)

	err = i.store.Put(ctx, key, source, exclusive)
	i.l.Debug("storage put", zap.String("key", key), zap.Bool("exclusive", exclusive), zap.Error(err))
	return err
}

func (i *instrumentedStore) Keys(ctx context.Context) (keys []string, err error) {
	span := i.spanFromContext(ctx, "Keys")
	defer func() { finish(span, err) }()

	keys, err = i.store.Keys(ctx)
	i.l.Debug("storage keys", zap.Int("count", len(keys)), zap.Error(err))
	return keys, err
}

func (i *instrumentedStore) Clear(ctx context.Context) (err error) {
	span := i.spanFromContext(ctx, "Clear")
	defer func() { finish(span, err) }()

	err = i.store.Clear(ctx)
	i.l.Debug("storage clear", zap.Error(err))
	return err
}

func (i *instrumentedStore) Path(key string) string {
	return i.store.Path(key)
}
