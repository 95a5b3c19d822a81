package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/config"
	"github.com/sells-group/po-insight/internal/ingest"
	"github.com/sells-group/po-insight/internal/po"
	"github.com/sells-group/po-insight/internal/store"
)

// loadTable reads and normalizes an uploaded spreadsheet from disk.
func loadTable(path string) (*po.Table, error) {
	raw, err := ingest.ReadXLSX(path)
	if err != nil {
		return nil, err
	}
	return ingest.Normalize(raw)
}

// openStore opens the configured upload-log backend and runs migrations.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		s, err = store.NewSQLite(cfg.DatabaseURL)
	case "postgres":
		s, err = store.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// recordUpload appends an upload-log entry, logging rather than failing the
// run when the store is unavailable.
func recordUpload(ctx context.Context, cfg config.StoreConfig, entry store.UploadEntry) {
	s, err := openStore(ctx, cfg)
	if err != nil {
		zap.L().Warn("upload log unavailable", zap.Error(err))
		return
	}
	defer s.Close()

	if err := s.AppendUpload(ctx, entry); err != nil {
		zap.L().Warn("upload log append failed", zap.Error(err))
	}
}
