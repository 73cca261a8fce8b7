package gcs

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/utils/safe"
	"google.golang.org/api/option"
)

const contentType = "application/json"

// GCS is a KVStore keeping one object per key in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.KVStore = &GCS{}

type Option func(*GCS)

// WithPrefix places all objects under prefix
func WithPrefix(prefix string) Option {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

func New(ctx context.Context, bucket string, clientOpts []option.ClientOption, opts ...Option) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) object(key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(path.Join(g.prefix, key+".json"))
}

func (g *GCS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r, err := g.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to open object", goerr.V("key", key), goerr.V("bucket", g.bucket))
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to read object", goerr.V("key", key), goerr.V("bucket", g.bucket))
	}
	return data, true, nil
}

// Set uploads value. The object only becomes visible once Close succeeds,
// so readers never observe a partial write.
func (g *GCS) Set(ctx context.Context, key string, value []byte) error {
	w := g.object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("key", key), goerr.V("bucket", g.bucket))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object", goerr.V("key", key), goerr.V("bucket", g.bucket))
	}
	return nil
}

func (g *GCS) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := g.object(key).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.Wrap(err, "failed to delete object", goerr.V("key", key), goerr.V("bucket", g.bucket))
		}
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
