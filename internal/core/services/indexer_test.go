package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/multi-machine-dedup/internal/connectors/filesystem"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

func newTestIndexer(store *memory.CatalogStore, log *logger.Logger, opts IndexOptions) *Indexer {
	return NewIndexer(store, filesystem.NewWalker(), textDetector, log, opts, nil)
}

func TestIndexer_DuplicateContent(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.txt": "hello", "b.txt": "hello"})
	store := memory.NewCatalogStore("alpha.db")
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelDebug)

	report, err := newTestIndexer(store, log, IndexOptions{}).Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 1, report.Directories)
	assert.Equal(t, 1, report.NewContent)
	assert.Equal(t, 1, report.ContentConflicts)
	assert.Zero(t, report.PathConflicts)

	files, contents := counts(t, store)
	assert.Equal(t, 2, files)
	assert.Equal(t, 1, contents)

	recs := listFiles(t, store, "alpha")
	require.Len(t, recs, 2)
	assert.Equal(t, filepath.Join(root, "a.txt"), recs[0].FullPath)
	assert.Equal(t, filepath.Join(root, "b.txt"), recs[1].FullPath)
	assert.Equal(t, recs[0].ContentID, recs[1].ContentID)
	assert.Equal(t, int64(5), recs[0].Size)

	content := listContent(t, store)
	require.Len(t, content, 1)
	assert.Equal(t, "text/plain", content[0].MIME)

	assert.Equal(t, 1, log.Count(logger.LevelWarn), "second copy is a content conflict")
	assert.Zero(t, log.Count(logger.LevelError))
	assert.Contains(t, buf.String(), "Processing directory "+root)
}

func TestIndexer_ReindexIsIdempotent(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.txt": "hello", "b.txt": "hello"})
	store := memory.NewCatalogStore("alpha.db")
	ctx := context.Background()

	_, err := newTestIndexer(store, logger.Discard(), IndexOptions{}).Index(ctx, "alpha", root)
	require.NoError(t, err)

	log := logger.Discard()
	report, err := newTestIndexer(store, log, IndexOptions{}).Index(ctx, "alpha", root)

	require.NoError(t, err)
	files, contents := counts(t, store)
	assert.Equal(t, 2, files)
	assert.Equal(t, 1, contents)
	assert.Zero(t, report.NewContent)
	assert.Equal(t, 2, report.ContentConflicts)
	assert.Equal(t, 2, report.PathConflicts)
	assert.Equal(t, 2, log.Count(logger.LevelError), "each path conflict is an error")
}

func TestIndexer_SecondHostSharesContent(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.txt": "hello"})
	store := memory.NewCatalogStore("shared.db")
	ctx := context.Background()

	_, err := newTestIndexer(store, logger.Discard(), IndexOptions{}).Index(ctx, "alpha", root)
	require.NoError(t, err)
	report, err := newTestIndexer(store, logger.Discard(), IndexOptions{}).Index(ctx, "beta", root)
	require.NoError(t, err)

	assert.Zero(t, report.PathConflicts, "the same path on another host is a new file")
	files, contents := counts(t, store)
	assert.Equal(t, 2, files)
	assert.Equal(t, 1, contents)
	assert.Len(t, listFiles(t, store, "beta"), 1)
}

func TestIndexer_UnknownMIME(t *testing.T) {
	root := writeFiles(t, map[string]string{"blob": "\x00\x01\x02"})
	store := memory.NewCatalogStore("alpha.db")

	ix := NewIndexer(store, filesystem.NewWalker(), mockDetector{}, logger.Discard(), IndexOptions{}, nil)
	_, err := ix.Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	content := listContent(t, store)
	require.Len(t, content, 1)
	assert.Equal(t, domain.UnknownMIME, content[0].MIME)
}

func TestIndexer_UnreadableFileIsSkipped(t *testing.T) {
	root := writeFiles(t, map[string]string{"ok.txt": "fine"})
	walker := &mockWalker{entries: []domain.WalkEntry{
		{Path: root, IsDir: true},
		{Path: filepath.Join(root, "vanished.txt")},
		{Path: filepath.Join(root, "ok.txt")},
	}}
	store := memory.NewCatalogStore("alpha.db")
	log := logger.Discard()

	ix := NewIndexer(store, walker, textDetector, log, IndexOptions{}, nil)
	report, err := ix.Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	assert.Equal(t, 1, report.ReadErrors)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 1, log.Count(logger.LevelError))
	recs := listFiles(t, store, "alpha")
	require.Len(t, recs, 1)
	assert.Equal(t, filepath.Join(root, "ok.txt"), recs[0].FullPath)
}

func TestIndexer_TraversalErrorIsFatal(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.txt": "hello"})
	walker := &mockWalker{
		entries: []domain.WalkEntry{{Path: filepath.Join(root, "a.txt")}},
		err:     &domain.TraversalError{Path: root, Err: fs.ErrPermission},
	}
	store := memory.NewCatalogStore("alpha.db")

	ix := NewIndexer(store, walker, textDetector, logger.Discard(), IndexOptions{}, nil)
	report, err := ix.Index(context.Background(), "alpha", root)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTraversal)
	assert.True(t, domain.IsFatal(err))
	assert.NotNil(t, report)
}

func TestIndexer_StorageErrorIsFatal(t *testing.T) {
	root := writeFiles(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	store := memory.NewCatalogStore("alpha.db")
	store.Fail(nil)

	_, err := newTestIndexer(store, logger.Discard(), IndexOptions{Workers: 2}).Index(context.Background(), "alpha", root)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageFatal)
	assert.ErrorIs(t, err, memory.ErrInjected)
}

func TestIndexer_WorkersMatchSequential(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("d%d/f%02d.txt", i%4, i)] = fmt.Sprintf("content %d", i%10)
	}
	root := writeFiles(t, files)
	ctx := context.Background()

	sequential := memory.NewCatalogStore("seq.db")
	seqReport, err := newTestIndexer(sequential, logger.Discard(), IndexOptions{Workers: 1}).Index(ctx, "alpha", root)
	require.NoError(t, err)

	parallel := memory.NewCatalogStore("par.db")
	parReport, err := newTestIndexer(parallel, logger.Discard(), IndexOptions{Workers: 8}).Index(ctx, "alpha", root)
	require.NoError(t, err)

	assert.Equal(t, listFiles(t, sequential, "alpha"), listFiles(t, parallel, "alpha"))
	assert.ElementsMatch(t, listContent(t, sequential), listContent(t, parallel))
	assert.Equal(t, seqReport.Files, parReport.Files)
	assert.Equal(t, 10, parReport.NewContent)
	assert.Equal(t, 30, parReport.ContentConflicts)
	assert.Equal(t, 5, parReport.Directories)
}

func TestIndexer_Exclude(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"keep.txt":        "keep",
		"scratch.tmp":     "tmp",
		"cache/inner.txt": "cached",
	})
	store := memory.NewCatalogStore("alpha.db")

	report, err := newTestIndexer(store, logger.Discard(), IndexOptions{
		Exclude: []string{"*.tmp", "cache"},
	}).Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Files)
	assert.Equal(t, 2, report.Excluded)
	recs := listFiles(t, store, "alpha")
	require.Len(t, recs, 1)
	assert.Equal(t, filepath.Join(root, "keep.txt"), recs[0].FullPath)
}

func TestIndexer_RateLimited(t *testing.T) {
	root := writeFiles(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	store := memory.NewCatalogStore("alpha.db")

	report, err := newTestIndexer(store, logger.Discard(), IndexOptions{Rate: 1000}).Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Files)
}

func TestIndexer_CancelledContext(t *testing.T) {
	root := writeFiles(t, map[string]string{"a": "1"})
	store := memory.NewCatalogStore("alpha.db")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestIndexer(store, logger.Discard(), IndexOptions{}).Index(ctx, "alpha", root)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIndexer_Progress(t *testing.T) {
	root := writeFiles(t, map[string]string{"a": "1", "b": "2"})
	progress := NewProgress()

	ix := NewIndexer(memory.NewCatalogStore("alpha.db"), filesystem.NewWalker(), textDetector, logger.Discard(), IndexOptions{}, progress)
	_, err := ix.Index(context.Background(), "alpha", root)

	require.NoError(t, err)
	status := progress.Snapshot()
	assert.Equal(t, "index", status.Operation)
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.Processed)
	assert.Zero(t, status.Problems)
}
