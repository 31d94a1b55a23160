package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// IndexOptions tune an indexing pass.
type IndexOptions struct {
	// Workers bounds concurrent hashing. Values below 2 run one file at a time.
	Workers int

	// Rate limits files hashed per second. 0 is unlimited.
	Rate float64

	// Exclude holds glob patterns passed to the walker.
	Exclude []string
}

// Indexer records every regular file under a root in one catalog.
type Indexer struct {
	store    driven.CatalogStore
	walker   driven.Walker
	detector driven.MIMEDetector
	log      *logger.Logger
	opts     IndexOptions
	progress *Progress
}

// NewIndexer creates an indexer writing to store.
// The progress tracker is optional.
func NewIndexer(
	store driven.CatalogStore,
	walker driven.Walker,
	detector driven.MIMEDetector,
	log *logger.Logger,
	opts IndexOptions,
	progress *Progress,
) *Indexer {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Indexer{
		store:    store,
		walker:   walker,
		detector: detector,
		log:      log,
		opts:     opts,
		progress: progress,
	}
}

// indexRun carries the mutable state of one pass.
type indexRun struct {
	host     string
	throttle *rate.Limiter

	mu     sync.Mutex
	report *domain.IndexReport
}

func (r *indexRun) update(fn func(*domain.IndexReport)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.report)
}

// Index hashes every file under root and records it for host.
//
// Unreadable files are logged and skipped. Content and path conflicts are
// logged and counted. A traversal or storage failure aborts the pass and is
// returned together with the partial report.
func (ix *Indexer) Index(ctx context.Context, host, root string) (*domain.IndexReport, error) {
	run := &indexRun{
		host:     host,
		throttle: newThrottle(ix.opts.Rate),
		report: &domain.IndexReport{
			RunID: uuid.NewString(),
			Host:  host,
			Root:  root,
		},
	}

	ix.progress.start("index")
	defer ix.progress.finish()

	ix.log.Debug("Index run %s: host %q, root %s, catalog %s, %d workers",
		run.report.RunID, host, root, ix.store.Path(), ix.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.opts.Workers)

	var walkErr error
	for entry, err := range ix.walker.Walk(gctx, root, ix.opts.Exclude) {
		if err != nil {
			walkErr = err
			break
		}
		switch {
		case entry.Excluded:
			ix.log.Debug("Excluding %s", entry.Path)
			run.update(func(r *domain.IndexReport) { r.Excluded++ })
		case entry.IsDir:
			ix.log.Info("Processing directory %s", entry.Path)
			run.update(func(r *domain.IndexReport) { r.Directories++ })
		default:
			path := entry.Path
			g.Go(func() error {
				return ix.indexFile(gctx, run, path)
			})
		}
	}

	// Workers only return fatal errors, which also cancel the walk.
	if err := g.Wait(); err != nil {
		return run.report, fmt.Errorf("index %s: %w", root, err)
	}
	if walkErr != nil {
		return run.report, fmt.Errorf("index %s: %w", root, walkErr)
	}

	r := run.report
	ix.log.Info("Indexed %d files in %d directories: %d new contents, %d content conflicts, %d path conflicts, %d unreadable, %d excluded",
		r.Files, r.Directories, r.NewContent, r.ContentConflicts, r.PathConflicts, r.ReadErrors, r.Excluded)
	return r, nil
}

// indexFile hashes one file and records it. Only fatal errors are returned.
func (ix *Indexer) indexFile(ctx context.Context, run *indexRun, path string) error {
	if err := run.throttle.Wait(ctx); err != nil {
		return err
	}

	id, err := HashFile(path)
	if err != nil {
		ix.log.Error("Skipping file: %v", err)
		run.update(func(r *domain.IndexReport) { r.ReadErrors++ })
		ix.progress.add(0, 1)
		return nil
	}
	ix.log.Debug("Indexing file %s: %s", path, id)

	mimeType, ok := ix.detector.Detect(path)
	if !ok || mimeType == "" {
		mimeType = domain.UnknownMIME
	}

	res, err := ix.store.InsertContent(ctx, domain.ContentRecord{ContentID: id, MIME: mimeType})
	if err != nil {
		return err
	}
	if res == domain.AlreadyExists {
		ix.log.Warn("hash & size '%d' '%d' already indexed (%s)", id.Hash, id.Size, path)
	}

	fres, err := ix.store.InsertFile(ctx, domain.FileRecord{Host: run.host, FullPath: path, ContentID: id})
	if err != nil {
		return err
	}
	if fres == domain.AlreadyExists {
		ix.log.Error("path '%s' already indexed", path)
	}

	run.update(func(r *domain.IndexReport) {
		r.Files++
		if res == domain.Inserted {
			r.NewContent++
		} else {
			r.ContentConflicts++
		}
		if fres == domain.AlreadyExists {
			r.PathConflicts++
		}
	})
	ix.progress.add(1, 0)
	return nil
}
