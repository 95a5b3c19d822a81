package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "uploads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := UploadEntry{
		Actor:      "blake@example.com",
		Filename:   "pos_january.xlsx",
		RowCount:   420,
		AlertCount: 17,
		UploadedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	second := UploadEntry{
		Actor:      "dana@example.com",
		Filename:   "pos_february.xlsx",
		RowCount:   380,
		UploadedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.AppendUpload(ctx, first))
	require.NoError(t, s.AppendUpload(ctx, second))

	entries, err := s.ListUploads(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "pos_february.xlsx", entries[0].Filename)
	assert.Equal(t, "pos_january.xlsx", entries[1].Filename)
	assert.Equal(t, 420, entries[1].RowCount)
	assert.Equal(t, 17, entries[1].AlertCount)
	assert.NotEmpty(t, entries[0].ID)
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendUpload(ctx, UploadEntry{
			Actor:      "blake@example.com",
			Filename:   "pos.xlsx",
			RowCount:   i,
			UploadedAt: time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC),
		}))
	}

	entries, err := s.ListUploads(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
