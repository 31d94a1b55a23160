package services

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
)

// mockDetector implements driven.MIMEDetector for testing.
type mockDetector struct {
	mime string
	ok   bool
}

func (m mockDetector) Detect(string) (string, bool) { return m.mime, m.ok }

var textDetector = mockDetector{mime: "text/plain", ok: true}

// mockWalker implements driven.Walker by replaying entries.
type mockWalker struct {
	entries []domain.WalkEntry
	err     error
}

func (m *mockWalker) Walk(_ context.Context, _ string, _ []string) iter.Seq2[domain.WalkEntry, error] {
	return func(yield func(domain.WalkEntry, error) bool) {
		for _, e := range m.entries {
			if !yield(e, nil) {
				return
			}
		}
		if m.err != nil {
			yield(domain.WalkEntry{}, m.err)
		}
	}
}

// writeFiles creates files under a new temp dir and returns the dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func counts(t *testing.T, store driven.CatalogStore) (files, contents int) {
	t.Helper()
	files, contents, err := store.Counts(context.Background())
	require.NoError(t, err)
	return files, contents
}

func listFiles(t *testing.T, store driven.CatalogStore, host string) []domain.FileRecord {
	t.Helper()
	var out []domain.FileRecord
	for rec, err := range store.ListFiles(context.Background(), host) {
		require.NoError(t, err)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullPath < out[j].FullPath })
	return out
}

func listContent(t *testing.T, store driven.CatalogStore) []domain.ContentRecord {
	t.Helper()
	var out []domain.ContentRecord
	for rec, err := range store.ListContent(context.Background()) {
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func addContent(t *testing.T, store *memory.CatalogStore, hash uint32, size int64) {
	t.Helper()
	_, err := store.InsertContent(context.Background(), domain.ContentRecord{
		ContentID: domain.ContentID{Hash: hash, Size: size},
		MIME:      domain.UnknownMIME,
	})
	require.NoError(t, err)
}
