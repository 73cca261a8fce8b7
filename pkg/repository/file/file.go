package file

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
)

const (
	// tempFilePrefix is the prefix of files used during atomic writes
	tempFilePrefix = ".olive-tmp-"

	valueExt = ".json"
)

// File is a KVStore keeping one file per key in a directory. Writes are
// atomic: a value is either the previous one or the new one, never partial.
type File struct {
	dir string
}

var _ interfaces.KVStore = &File{}

// New creates the directory if needed and returns a File store rooted there
func New(dir string) (*File, error) {
	if dir == "" {
		return nil, goerr.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}
	return &File{dir: dir}, nil
}

// path escapes key so that any key maps to a single file inside dir
func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+valueExt)
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to read value", goerr.V("key", key))
	}
	return data, true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := writeFileAtomic(f.dir, f.path(key), value); err != nil {
		return goerr.Wrap(err, "failed to write value", goerr.V("key", key))
	}
	return nil
}

func (f *File) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(err, "failed to delete value", goerr.V("key", key))
		}
	}
	return nil
}

func (f *File) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file in dir, syncs it and renames it
// over filename.
func writeFileAtomic(dir, filename string, data []byte) error {
	tmp, err := os.CreateTemp(dir, tempFilePrefix+"*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temp file")
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return goerr.Wrap(err, "failed to rename temp file", goerr.V("target", filename))
	}
	return nil
}
