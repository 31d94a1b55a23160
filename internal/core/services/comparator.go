package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// CatalogComparator measures how well one catalog's content is covered by
// another. It compares content identities only; paths and hosts play no part.
type CatalogComparator struct {
	log      *logger.Logger
	progress *Progress
}

// NewCatalogComparator creates a comparator. The progress tracker is optional.
func NewCatalogComparator(log *logger.Logger, progress *Progress) *CatalogComparator {
	return &CatalogComparator{log: log, progress: progress}
}

// Compare reports every content identity in first that is absent from
// second. The identities of second are loaded into a set before first is
// read, so the cost is linear in the size of both catalogs.
//
// The relation is directional: Compare(a, b) and Compare(b, a) differ in
// general.
func (c *CatalogComparator) Compare(ctx context.Context, first, second driven.CatalogStore) (*domain.CompareReport, error) {
	report := &domain.CompareReport{RunID: uuid.NewString()}

	c.progress.start("compare")
	defer c.progress.finish()

	c.log.Debug("Compare run %s: %s against %s", report.RunID, first.Path(), second.Path())

	reference := make(map[domain.ContentID]struct{})
	for rec, err := range second.ListContent(ctx) {
		if err != nil {
			return report, fmt.Errorf("compare: reading catalog 2: %w", err)
		}
		reference[rec.ContentID] = struct{}{}
	}
	report.Reference = len(reference)
	c.log.Debug("Loaded %d content identities from %s", report.Reference, second.Path())

	for rec, err := range first.ListContent(ctx) {
		if err != nil {
			return report, fmt.Errorf("compare: reading catalog 1: %w", err)
		}
		report.Entries++
		if _, ok := reference[rec.ContentID]; ok {
			c.progress.add(1, 0)
			continue
		}
		report.Missing = append(report.Missing, rec)
		c.log.Error("%s (%s) missing from catalog 2", rec.ContentID, rec.MIME)
		c.progress.add(1, 1)
	}

	if report.Covered() {
		c.log.Info("All %d entries in catalog 1 are also in catalog 2", report.Entries)
	} else {
		c.log.Error("Missing %d of %d entries from catalog 2", report.Gaps(), report.Entries)
	}
	return report, nil
}
