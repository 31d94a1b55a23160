package memory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// ErrInjected is the default failure installed by Fail.
var ErrInjected = errors.New("injected storage failure")

type fileKey struct {
	host string
	path string
}

// CatalogStore is an in-memory implementation of driven.CatalogStore.
// It enforces the same keys and content-before-file rule as the SQLite store.
type CatalogStore struct {
	mu       sync.RWMutex
	path     string
	contents map[domain.ContentID]string
	files    map[fileKey]domain.ContentID
	fail     error
}

// NewCatalogStore creates a new empty in-memory catalog.
func NewCatalogStore(path string) *CatalogStore {
	return &CatalogStore{
		path:     path,
		contents: make(map[domain.ContentID]string),
		files:    make(map[fileKey]domain.ContentID),
	}
}

// InsertContent stores a content identity unless it exists.
func (s *CatalogStore) InsertContent(_ context.Context, rec domain.ContentRecord) (domain.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, &domain.StorageError{Op: "inserting content", Err: s.fail}
	}
	if _, ok := s.contents[rec.ContentID]; ok {
		return domain.AlreadyExists, nil
	}
	s.contents[rec.ContentID] = rec.MIME
	return domain.Inserted, nil
}

// InsertFile stores a path unless it exists. The content identity must be stored.
func (s *CatalogStore) InsertFile(_ context.Context, rec domain.FileRecord) (domain.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return 0, &domain.StorageError{Op: "inserting file", Err: s.fail}
	}
	if _, ok := s.contents[rec.ContentID]; !ok {
		return 0, &domain.StorageError{
			Op:  "inserting file " + rec.FullPath,
			Err: fmt.Errorf("%s not catalogued", rec.ContentID),
		}
	}
	key := fileKey{host: rec.Host, path: rec.FullPath}
	if _, ok := s.files[key]; ok {
		return domain.AlreadyExists, nil
	}
	s.files[key] = rec.ContentID
	return domain.Inserted, nil
}

// ListFiles yields a snapshot of the files recorded for host.
func (s *CatalogStore) ListFiles(_ context.Context, host string) iter.Seq2[domain.FileRecord, error] {
	return func(yield func(domain.FileRecord, error) bool) {
		s.mu.RLock()
		if s.fail != nil {
			err := &domain.StorageError{Op: "listing files", Err: s.fail}
			s.mu.RUnlock()
			yield(domain.FileRecord{}, err)
			return
		}
		var out []domain.FileRecord
		for k, id := range s.files {
			if k.host == host {
				out = append(out, domain.FileRecord{Host: k.host, FullPath: k.path, ContentID: id})
			}
		}
		s.mu.RUnlock()

		for _, rec := range out {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ListContent yields a snapshot of every content identity.
func (s *CatalogStore) ListContent(_ context.Context) iter.Seq2[domain.ContentRecord, error] {
	return func(yield func(domain.ContentRecord, error) bool) {
		s.mu.RLock()
		if s.fail != nil {
			err := &domain.StorageError{Op: "listing content", Err: s.fail}
			s.mu.RUnlock()
			yield(domain.ContentRecord{}, err)
			return
		}
		out := make([]domain.ContentRecord, 0, len(s.contents))
		for id, mime := range s.contents {
			out = append(out, domain.ContentRecord{ContentID: id, MIME: mime})
		}
		s.mu.RUnlock()

		for _, rec := range out {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Counts returns the number of file and content entries.
func (s *CatalogStore) Counts(_ context.Context) (files, contents int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail != nil {
		return 0, 0, &domain.StorageError{Op: "counting rows", Err: s.fail}
	}
	return len(s.files), len(s.contents), nil
}

// Fail makes every later operation return a fatal StorageError wrapping err.
// A nil err installs ErrInjected. Used to exercise fatal paths.
func (s *CatalogStore) Fail(err error) {
	if err == nil {
		err = ErrInjected
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Path returns the location the catalog was registered under.
func (s *CatalogStore) Path() string {
	return s.path
}

// Close is a no-op; catalogs live as long as their Opener.
func (s *CatalogStore) Close() error {
	return nil
}

// Opener hands out in-memory catalogs by location. Opening the same
// location twice returns the same catalog.
type Opener struct {
	mu       sync.Mutex
	catalogs map[string]*CatalogStore

	// Err, when set, is returned by every Open call.
	Err error
}

// NewOpener creates an empty in-memory catalog registry.
func NewOpener() *Opener {
	return &Opener{catalogs: make(map[string]*CatalogStore)}
}

// Open returns the catalog registered at location, creating it if needed.
func (o *Opener) Open(location string) (driven.CatalogStore, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Catalog(location), nil
}

// OpenExisting returns the catalog at location if one was opened before.
func (o *Opener) OpenExisting(location string) (driven.CatalogStore, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	o.mu.Lock()
	c, ok := o.catalogs[location]
	o.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no catalog at %s", domain.ErrNotFound, location)
	}
	return c, nil
}

// Catalog returns the concrete catalog at location, creating it if needed.
func (o *Opener) Catalog(location string) *CatalogStore {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.catalogs[location]
	if !ok {
		c = NewCatalogStore(location)
		o.catalogs[location] = c
	}
	return c
}
