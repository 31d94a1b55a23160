package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
)

// CatalogStore persists one host catalog: content identities and the
// paths that reference them. Backed by SQLite for on-disk catalogs.
//
// Uniqueness conflicts are not errors: inserts report domain.AlreadyExists
// and leave the stored row untouched. Every returned error is fatal and
// matches domain.ErrStorageFatal.
type CatalogStore interface {
	// InsertContent stores a content identity unless its (hash, size) key exists.
	InsertContent(ctx context.Context, rec domain.ContentRecord) (domain.InsertResult, error)

	// InsertFile stores a path unless its (host, full_path) key exists.
	// The referenced content identity must already be stored.
	InsertFile(ctx context.Context, rec domain.FileRecord) (domain.InsertResult, error)

	// ListFiles lazily yields the FileRecords of one host, in no particular order.
	ListFiles(ctx context.Context, host string) iter.Seq2[domain.FileRecord, error]

	// ListContent lazily yields every ContentRecord, in no particular order.
	ListContent(ctx context.Context) iter.Seq2[domain.ContentRecord, error]

	// Counts returns the number of file and content rows.
	Counts(ctx context.Context) (files, contents int, err error)

	// Path returns the storage location.
	Path() string

	// Close releases the storage location.
	Close() error
}

// CatalogOpener opens or creates catalog stores by location.
type CatalogOpener interface {
	// Open returns the store at location, creating an empty catalog if none exists.
	// Opening an existing catalog is idempotent.
	Open(location string) (CatalogStore, error)

	// OpenExisting returns the store at location. It fails with
	// domain.ErrNotFound instead of creating a missing catalog.
	OpenExisting(location string) (CatalogStore, error)
}
