package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
)

// Walker enumerates a directory tree.
type Walker interface {
	// Walk lazily yields every entry under root, root included, in no
	// particular order. Entries matching an exclude glob are yielded with
	// Excluded set and never descended into. A yielded error is a
	// *domain.TraversalError and ends the walk.
	Walk(ctx context.Context, root string, exclude []string) iter.Seq2[domain.WalkEntry, error]
}

// MIMEDetector classifies files by content.
type MIMEDetector interface {
	// Detect returns the MIME type of the file at path without parameters.
	// ok is false when the type cannot be determined.
	Detect(path string) (mime string, ok bool)
}
