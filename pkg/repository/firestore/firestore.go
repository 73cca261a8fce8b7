package firestore

import (
	"context"
	"errors"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the collection holding key-value documents
const DefaultCollection = "olive_kv"

// MaxValueSize is the largest value Set accepts. Firestore caps a document at
// 1 MiB; the rest is left for the key, field names and timestamp.
const MaxValueSize = 1<<20 - 16<<10

// ErrValueTooLarge is returned by Set when a value cannot fit in one document
var ErrValueTooLarge = errors.New("value too large for firestore document")

// kvDoc is the Firestore document representation of one key-value entry
type kvDoc struct {
	Key       string    `firestore:"Key"`
	Value     []byte    `firestore:"Value"`
	UpdatedAt time.Time `firestore:"UpdatedAt"`
}

type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.KVStore = &Firestore{}

type Option func(*Firestore)

// WithCollection overrides the collection name. Tests use it to isolate runs.
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// doc maps key to a document. Document IDs cannot contain '/', so keys are
// path-escaped.
func (f *Firestore) doc(key string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(url.PathEscape(key))
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	snap, err := f.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to get value", goerr.V("key", key))
	}

	var d kvDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, false, goerr.Wrap(err, "failed to unmarshal value", goerr.V("key", key))
	}
	return d.Value, true, nil
}

func (f *Firestore) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > MaxValueSize {
		return goerr.Wrap(ErrValueTooLarge, "refusing to write value",
			goerr.V("key", key),
			goerr.V("size", len(value)),
			goerr.V("limit", MaxValueSize))
	}

	d := &kvDoc{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := f.doc(key).Set(ctx, d); err != nil {
		return goerr.Wrap(err, "failed to set value", goerr.V("key", key))
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := f.doc(key).Delete(ctx); err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to delete value", goerr.V("key", key))
		}
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
