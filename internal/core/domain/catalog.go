package domain

import "fmt"

// UnknownMIME is stored when a file's MIME type cannot be classified.
const UnknownMIME = "N/A"

// ContentID is the (hash, size) pair used as a proxy for "same bytes".
// Equal ContentIDs mark a dedup candidate, never proof of byte identity.
type ContentID struct {
	// Hash is the CRC-32C (Castagnoli) checksum of the whole file.
	Hash uint32

	// Size is the file length in bytes.
	Size int64
}

// String returns the identity in log form.
func (c ContentID) String() string {
	return fmt.Sprintf("hash %d size %d", c.Hash, c.Size)
}

// ContentRecord represents one distinct observed content identity.
// The first insert for a ContentID wins; later inserts never change MIME.
type ContentRecord struct {
	ContentID

	// MIME is the best-effort MIME type, or UnknownMIME.
	MIME string
}

// FileRecord represents one observed path on one host at index time.
type FileRecord struct {
	// Host is the label of the machine the path was indexed on.
	Host string

	// FullPath is the absolute path on that host.
	FullPath string

	// ContentID references the ContentRecord written before this row.
	ContentID
}

// InsertResult is the outcome of a catalog insert that did not fail.
type InsertResult int

const (
	// Inserted means a new row was written.
	Inserted InsertResult = iota

	// AlreadyExists means the key was already present and nothing changed.
	AlreadyExists
)

// String returns the string representation.
func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already exists"
	default:
		return unknownDescription
	}
}

// WalkEntry is one item yielded by directory traversal.
type WalkEntry struct {
	// Path is the entry path as produced by the walker.
	Path string

	// IsDir is true for directories, which are never hashed.
	IsDir bool

	// Excluded is true when the entry matched an exclusion pattern. An
	// excluded directory is yielded once and its subtree is not walked.
	Excluded bool
}
