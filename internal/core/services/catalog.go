package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService opens catalogs by location and runs one operation on them.
type CatalogService struct {
	opener   driven.CatalogOpener
	walker   driven.Walker
	detector driven.MIMEDetector
	log      *logger.Logger
	progress *Progress
}

// NewCatalogService creates a catalog service.
func NewCatalogService(
	opener driven.CatalogOpener,
	walker driven.Walker,
	detector driven.MIMEDetector,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		opener:   opener,
		walker:   walker,
		detector: detector,
		log:      log,
		progress: NewProgress(),
	}
}

// Index builds or extends the catalog at req.DB from req.Root.
func (s *CatalogService) Index(ctx context.Context, req driving.IndexRequest) (report *domain.IndexReport, err error) {
	if req.Host == "" || req.DB == "" || req.Root == "" {
		return nil, fmt.Errorf("%w: index needs a label, a catalog and a root", domain.ErrInvalidInput)
	}

	store, err := s.opener.Open(req.DB)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", req.DB, err)
	}
	defer closeStore(store, &err)

	ix := NewIndexer(store, s.walker, s.detector, s.log, IndexOptions{
		Workers: req.Workers,
		Rate:    req.Rate,
		Exclude: req.Exclude,
	}, s.progress)
	return ix.Index(ctx, req.Host, req.Root)
}

// CheckIntegrity verifies the files recorded for req.Host in req.DB, which
// must exist.
func (s *CatalogService) CheckIntegrity(ctx context.Context, req driving.CheckRequest) (report *domain.IntegrityReport, err error) {
	if req.Host == "" || req.DB == "" {
		return nil, fmt.Errorf("%w: check-integrity needs a label and a catalog", domain.ErrInvalidInput)
	}

	store, err := s.opener.OpenExisting(req.DB)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", req.DB, err)
	}
	defer closeStore(store, &err)

	return NewIntegrityChecker(store, s.log, req.Rate, s.progress).Check(ctx, req.Host)
}

// Compare reports identities of req.DB1 that req.DB2 lacks. Both catalogs
// must exist.
func (s *CatalogService) Compare(ctx context.Context, req driving.CompareRequest) (report *domain.CompareReport, err error) {
	if req.DB1 == "" || req.DB2 == "" {
		return nil, fmt.Errorf("%w: compare needs two catalogs", domain.ErrInvalidInput)
	}

	first, err := s.opener.OpenExisting(req.DB1)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", req.DB1, err)
	}
	defer closeStore(first, &err)

	second, err := s.opener.OpenExisting(req.DB2)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", req.DB2, err)
	}
	defer closeStore(second, &err)

	return NewCatalogComparator(s.log, s.progress).Compare(ctx, first, second)
}

// Status returns progress of the operation currently running.
func (s *CatalogService) Status() driving.OperationStatus {
	return s.progress.Snapshot()
}

// closeStore closes store and reports a close failure unless an earlier
// error is already being returned.
func closeStore(store driven.CatalogStore, errp *error) {
	cerr := store.Close()
	if cerr == nil || *errp != nil {
		return
	}
	*errp = &domain.StorageError{Op: "closing catalog " + store.Path(), Err: cerr}
}
