package runtime

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/andst/staffboard/internal/config"
	"github.com/andst/staffboard/internal/errors"
	"github.com/andst/staffboard/internal/storage"
	"github.com/andst/staffboard/internal/storage/kv"
	"github.com/andst/staffboard/internal/storage/sheet"
	"github.com/andst/staffboard/internal/storage/sqlite"
	"github.com/andst/staffboard/internal/validate"
)

// OpenBackend opens the backend selected by cfg. Open failures other than
// configuration mistakes are reported as backend errors.
func OpenBackend(ctx context.Context, cfg *config.Config, extra ...option.ClientOption) (storage.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendMemory:
		db, err := kv.Open(kv.Options{InMemory: true})
		if err != nil {
			return nil, errors.NewBackendError(kv.MemoryName, "open", err)
		}
		return db, nil

	case config.BackendBadger:
		db, err := kv.Open(kv.Options{Path: cfg.DataDir})
		if err != nil {
			return nil, errors.NewBackendError(kv.Name, "open", err)
		}
		return db, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, errors.NewBackendError(sqlite.Name, "open", err)
		}
		return db, nil

	case config.BackendSheet:
		return openSheet(ctx, cfg, extra)
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrUnknownBackend, cfg.Backend)
}

func openSheet(ctx context.Context, cfg *config.Config, extra []option.ClientOption) (storage.Backend, error) {
	id, err := validate.SpreadsheetID(cfg.Sheet.URL)
	if err != nil {
		return nil, err
	}
	client, err := sheet.NewGoogleClient(ctx, sheet.GoogleOptions{
		SpreadsheetID:   id,
		CredentialsFile: cfg.Sheet.CredentialsFile,
		CredentialsJSON: cfg.Sheet.CredentialsJSON,
		Timeout:         cfg.Sheet.Timeout,
		ClientOptions:   extra,
	})
	if err != nil {
		return nil, errors.NewBackendError(sheet.Name, "open", err)
	}
	db, err := sheet.Open(ctx, client, sheet.Options{
		RecordsTab: cfg.Sheet.RecordsTab,
		TargetsTab: cfg.Sheet.TargetsTab,
	})
	if err != nil {
		return nil, errors.NewBackendError(sheet.Name, "open", err)
	}
	return db, nil
}
