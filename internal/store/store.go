// Package store persists the upload log: one entry per processed PO file,
// recording who uploaded what and how many rows it produced.
package store

import (
	"context"
	"time"
)

// UploadEntry is one upload-log row.
type UploadEntry struct {
	ID         string    `json:"id"`
	Actor      string    `json:"actor"`
	Filename   string    `json:"filename"`
	RowCount   int       `json:"row_count"`
	AlertCount int       `json:"alert_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store defines the upload-log persistence interface.
type Store interface {
	AppendUpload(ctx context.Context, entry UploadEntry) error
	ListUploads(ctx context.Context, limit int) ([]UploadEntry, error)
	Migrate(ctx context.Context) error
	Close() error
}
