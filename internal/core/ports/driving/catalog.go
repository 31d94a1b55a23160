package driving

import (
	"context"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
)

// CatalogService runs the catalog operations against store locations.
//
// Each method opens the stores it needs, runs one batch operation, closes
// the stores and returns the report. Problems found by an operation are
// reported through the report, not the error; a non-nil error is fatal.
type CatalogService interface {
	// Index builds or extends the catalog at req.DB from the tree at req.Root.
	Index(ctx context.Context, req IndexRequest) (*domain.IndexReport, error)

	// CheckIntegrity re-hashes every file catalogued for req.Host.
	CheckIntegrity(ctx context.Context, req CheckRequest) (*domain.IntegrityReport, error)

	// Compare reports content identities of req.DB1 that are missing from req.DB2.
	Compare(ctx context.Context, req CompareRequest) (*domain.CompareReport, error)

	// Status returns progress of the operation currently running.
	Status() OperationStatus
}

// IndexRequest parameterises an indexing pass.
type IndexRequest struct {
	// Host is the label recorded on every FileRecord.
	Host string

	// DB is the catalog store location.
	DB string

	// Root is the directory to index.
	Root string

	// Workers bounds concurrent hashing. Values below 2 run sequentially.
	Workers int

	// Rate limits files hashed per second. 0 is unlimited.
	Rate float64

	// Exclude holds glob patterns matched against base names and full paths.
	Exclude []string
}

// CheckRequest parameterises an integrity check.
type CheckRequest struct {
	Host string
	DB   string
	Rate float64
}

// CompareRequest names the two catalogs to compare. The relation is
// directional: DB1 is checked for coverage by DB2.
type CompareRequest struct {
	DB1 string
	DB2 string
}

// OperationStatus represents the current state of a catalog operation.
type OperationStatus struct {
	// Operation names the running operation, empty when idle.
	Operation string

	// Running indicates if an operation is currently in progress.
	Running bool

	// Processed is the count of files or entries handled so far.
	Processed int

	// Problems is the number of mismatches, gaps or skipped entries so far.
	Problems int
}
