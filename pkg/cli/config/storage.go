package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/repository/file"
	"github.com/secmon-lab/olive/pkg/repository/firestore"
	"github.com/secmon-lab/olive/pkg/repository/gcs"
	"github.com/secmon-lab/olive/pkg/repository/memory"
	"github.com/secmon-lab/olive/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage backends
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendFirestore = "firestore"
	BackendGCS       = "gcs"
)

// Storage holds CLI flags for the key-value storage backend
type Storage struct {
	backend             string
	dir                 string
	firestoreProjectID  string
	firestoreDatabaseID string
	firestoreCollection string
	gcsBucket           string
	gcsPrefix           string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Category:    "Storage",
			Usage:       "Storage backend type (memory, file, firestore or gcs)",
			Value:       BackendFile,
			Sources:     cli.EnvVars("OLIVE_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-dir",
			Category:    "Storage",
			Usage:       "Directory for the file backend",
			Value:       ".olive",
			Sources:     cli.EnvVars("OLIVE_STORAGE_DIR"),
			Destination: &s.dir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Storage",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("OLIVE_FIRESTORE_PROJECT_ID"),
			Destination: &s.firestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Storage",
			Usage:       "Firestore Database ID",
			Sources:     cli.EnvVars("OLIVE_FIRESTORE_DATABASE_ID"),
			Destination: &s.firestoreDatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Category:    "Storage",
			Usage:       "Firestore collection holding key-value documents",
			Value:       firestore.DefaultCollection,
			Sources:     cli.EnvVars("OLIVE_FIRESTORE_COLLECTION"),
			Destination: &s.firestoreCollection,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Category:    "Storage",
			Usage:       "Cloud Storage bucket (required when using gcs backend)",
			Sources:     cli.EnvVars("OLIVE_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Category:    "Storage",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Sources:     cli.EnvVars("OLIVE_GCS_PREFIX"),
			Destination: &s.gcsPrefix,
		},
	}
}

// LogAttrs returns log attributes for the storage configuration
func (s *Storage) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("backend", s.backend)}
	switch s.backend {
	case BackendFile:
		attrs = append(attrs, slog.String("dir", s.dir))
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", s.firestoreProjectID),
			slog.String("database_id", s.firestoreDatabaseID),
			slog.String("collection", s.firestoreCollection),
		)
	case BackendGCS:
		attrs = append(attrs,
			slog.String("bucket", s.gcsBucket),
			slog.String("prefix", s.gcsPrefix),
		)
	}
	return attrs
}

// Configure opens the configured backend. The caller is responsible for
// calling Close() on the returned store.
func (s *Storage) Configure(ctx context.Context) (interfaces.KVStore, error) {
	var (
		kv  interfaces.KVStore
		err error
	)

	switch s.backend {
	case BackendMemory:
		logging.Default().Warn("Using in-memory storage, notes are lost on exit")
		kv = memory.New()

	case BackendFile:
		if s.dir == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "storage-dir is required when using file backend", goerr.V(OptionKey, "storage-dir"))
		}
		kv, err = file.New(s.dir)

	case BackendFirestore:
		if s.firestoreProjectID == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "firestore-project-id is required when using firestore backend", goerr.V(OptionKey, "firestore-project-id"))
		}
		var opts []firestore.Option
		if s.firestoreCollection != "" {
			opts = append(opts, firestore.WithCollection(s.firestoreCollection))
		}
		kv, err = firestore.New(ctx, s.firestoreProjectID, s.firestoreDatabaseID, opts...)

	case BackendGCS:
		if s.gcsBucket == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "gcs-bucket is required when using gcs backend", goerr.V(OptionKey, "gcs-bucket"))
		}
		kv, err = gcs.New(ctx, s.gcsBucket, nil, gcs.WithPrefix(s.gcsPrefix))

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown storage backend", goerr.V(BackendKey, s.backend))
	}

	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize storage", goerr.V(BackendKey, s.backend))
	}

	logging.Default().Info("Storage initialized", "storage", slog.GroupValue(s.LogAttrs()...))
	return kv, nil
}
