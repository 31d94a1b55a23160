package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"modernc.org/sqlite" // SQLite driver
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driven/storage/sqlite/schema"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogStore = (*Store)(nil)

// dsnPragmas are applied to every pooled connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// readOnlyParams open an existing file without creating it and refuse writes.
// The journal mode is left as the file has it.
const readOnlyParams = "?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)"

// uriEscaper escapes the characters SQLite's URI parser treats specially.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Store is a catalog persisted in one SQLite file.
type Store struct {
	db   *sql.DB
	path string

	// wmu serialises writers; concurrent indexing workers share one store.
	wmu sync.Mutex
}

// Open opens the catalog at location, creating the file and its tables if
// they do not exist. Opening an existing catalog is safe and changes nothing.
func Open(location string) (*Store, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty catalog location", domain.ErrInvalidInput)
	}

	if dir := filepath.Dir(location); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, storageErr("creating catalog directory", err)
		}
	}

	db, err := sql.Open("sqlite", location+dsnPragmas)
	if err != nil {
		return nil, storageErr("opening catalog", err)
	}

	s := &Store{
		db:   db,
		path: location,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Opener opens SQLite catalogs by file location.
type Opener struct{}

// Open implements the catalog opener used by the services layer.
func (Opener) Open(location string) (driven.CatalogStore, error) {
	s, err := Open(location)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenExisting implements the catalog opener used by the read-only services.
func (Opener) OpenExisting(location string) (driven.CatalogStore, error) {
	s, err := OpenReadOnly(location)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing catalog for reading. Nothing is written to
// the file: no schema is created and the journal mode is not changed. A
// missing file, or a SQLite file without the catalog tables, is reported as
// domain.ErrNotFound.
func OpenReadOnly(location string) (*Store, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: empty catalog location", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(location); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no catalog at %s", domain.ErrNotFound, location)
	} else if err != nil {
		return nil, storageErr("opening catalog", err)
	}

	db, err := sql.Open("sqlite", "file:"+uriEscaper.Replace(location)+readOnlyParams)
	if err != nil {
		return nil, storageErr("opening catalog", err)
	}

	s := &Store{
		db:   db,
		path: location,
	}

	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) checkSchema() error {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('hash', 'file')
	`).Scan(&n)
	if err != nil {
		return storageErr("reading schema", err)
	}
	if n != 2 {
		return fmt.Errorf("%w: %s is not a catalog", domain.ErrNotFound, s.path)
	}
	return nil
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(schema.SQL); err != nil {
		return storageErr("creating schema", err)
	}
	return nil
}

// InsertContent stores a content identity. An existing (hash, size) row is
// left untouched, including its mime.
func (s *Store) InsertContent(ctx context.Context, rec domain.ContentRecord) (domain.InsertResult, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO hash (hash, size, mime) VALUES (?, ?, ?)
		ON CONFLICT (hash, size) DO NOTHING
	`, int64(rec.Hash), rec.Size, rec.MIME)
	if err != nil {
		return 0, storageErr("inserting content "+rec.ContentID.String(), err)
	}
	return insertResult(res, "inserting content")
}

// InsertFile stores a path for a host. An existing (host, full_path) row is
// left untouched even when the referenced content differs.
func (s *Store) InsertFile(ctx context.Context, rec domain.FileRecord) (domain.InsertResult, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO file (host, full_path, hash, size) VALUES (?, ?, ?, ?)
		ON CONFLICT (host, full_path) DO NOTHING
	`, rec.Host, rec.FullPath, int64(rec.Hash), rec.Size)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, storageErr("inserting file "+rec.FullPath,
				fmt.Errorf("%s not catalogued: %w", rec.ContentID, err))
		}
		return 0, storageErr("inserting file "+rec.FullPath, err)
	}
	return insertResult(res, "inserting file")
}

// ListFiles lazily yields the files recorded for host.
func (s *Store) ListFiles(ctx context.Context, host string) iter.Seq2[domain.FileRecord, error] {
	return func(yield func(domain.FileRecord, error) bool) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT host, full_path, hash, size FROM file WHERE host = ?
		`, host)
		if err != nil {
			yield(domain.FileRecord{}, storageErr("listing files", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var rec domain.FileRecord
			var hash int64
			if err := rows.Scan(&rec.Host, &rec.FullPath, &hash, &rec.Size); err != nil {
				yield(domain.FileRecord{}, storageErr("scanning file", err))
				return
			}
			rec.Hash = uint32(hash)
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.FileRecord{}, storageErr("iterating files", err))
		}
	}
}

// ListContent lazily yields every content identity.
func (s *Store) ListContent(ctx context.Context) iter.Seq2[domain.ContentRecord, error] {
	return func(yield func(domain.ContentRecord, error) bool) {
		rows, err := s.db.QueryContext(ctx, `SELECT hash, size, mime FROM hash`)
		if err != nil {
			yield(domain.ContentRecord{}, storageErr("listing content", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var rec domain.ContentRecord
			var hash int64
			var mime sql.NullString
			if err := rows.Scan(&hash, &rec.Size, &mime); err != nil {
				yield(domain.ContentRecord{}, storageErr("scanning content", err))
				return
			}
			rec.Hash = uint32(hash)
			rec.MIME = mime.String
			if !mime.Valid {
				rec.MIME = domain.UnknownMIME
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(domain.ContentRecord{}, storageErr("iterating content", err))
		}
	}
}

// Counts returns the number of file and content rows.
func (s *Store) Counts(ctx context.Context) (files, contents int, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM file), (SELECT COUNT(*) FROM hash)
	`)
	if err := row.Scan(&files, &contents); err != nil {
		return 0, 0, storageErr("counting rows", err)
	}
	return files, contents, nil
}

func insertResult(res sql.Result, op string) (domain.InsertResult, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr(op, err)
	}
	if n == 0 {
		return domain.AlreadyExists, nil
	}
	return domain.Inserted, nil
}

// isForeignKeyViolation reports whether err is SQLite refusing a file row
// whose content row is missing.
func isForeignKeyViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
