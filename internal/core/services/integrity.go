package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// IntegrityChecker verifies that the files a host recorded still hold the
// recorded content. It never writes to the catalog.
type IntegrityChecker struct {
	store    driven.CatalogStore
	log      *logger.Logger
	rate     float64
	progress *Progress
}

// NewIntegrityChecker creates a checker reading from store. rate limits
// files hashed per second; 0 is unlimited. The progress tracker is optional.
func NewIntegrityChecker(store driven.CatalogStore, log *logger.Logger, rate float64, progress *Progress) *IntegrityChecker {
	return &IntegrityChecker{
		store:    store,
		log:      log,
		rate:     rate,
		progress: progress,
	}
}

// Check re-hashes every file recorded for host. A missing or unreadable
// file counts as a mismatch. Each mismatch is logged when found; the
// returned report holds all of them. Only storage failures are returned as
// errors.
func (c *IntegrityChecker) Check(ctx context.Context, host string) (*domain.IntegrityReport, error) {
	report := &domain.IntegrityReport{
		RunID: uuid.NewString(),
		Host:  host,
	}
	throttle := newThrottle(c.rate)

	c.progress.start("check-integrity")
	defer c.progress.finish()

	c.log.Debug("Integrity run %s: host %q, catalog %s", report.RunID, host, c.store.Path())

	for rec, err := range c.store.ListFiles(ctx, host) {
		if err != nil {
			return report, fmt.Errorf("check integrity: %w", err)
		}
		if err := throttle.Wait(ctx); err != nil {
			return report, fmt.Errorf("check integrity: %w", err)
		}

		if m, bad := verify(rec); bad {
			report.Mismatches = append(report.Mismatches, m)
			c.logMismatch(m)
			c.progress.add(1, 1)
			continue
		}
		report.OK++
		c.log.Debug("check ok on file: '%s'", rec.FullPath)
		c.progress.add(1, 0)
	}

	if report.Passed() {
		c.log.Info("Integrity check OK, all %d files verified", report.OK)
	} else {
		c.log.Error("Integrity check failed, %d files are corrupted or missing (%d verified)",
			report.MismatchCount(), report.OK)
	}
	return report, nil
}

// verify compares the file on disk with its record.
func verify(rec domain.FileRecord) (domain.IntegrityMismatch, bool) {
	m := domain.IntegrityMismatch{Path: rec.FullPath, Expected: rec.ContentID}

	got, err := HashFile(rec.FullPath)
	if err != nil {
		m.Reason = domain.MismatchUnreadable
		m.Err = err
		return m, true
	}
	m.Actual = got

	switch {
	case got.Size != rec.Size:
		m.Reason = domain.MismatchSize
	case got.Hash != rec.Hash:
		m.Reason = domain.MismatchChecksum
	default:
		return m, false
	}
	return m, true
}

func (c *IntegrityChecker) logMismatch(m domain.IntegrityMismatch) {
	switch m.Reason {
	case domain.MismatchUnreadable:
		c.log.Error("check failed on file: '%s': %v", m.Path, m.Err)
	default:
		c.log.Error("check failed on file: '%s': %s changed, expected %s, found %s",
			m.Path, m.Reason, m.Expected, m.Actual)
	}
}
