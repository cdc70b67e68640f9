// Package store defines where the raw reference tables live between runs.
package store

import (
	"context"
	"fmt"

	"maritime-forecast/internal/data"
	"maritime-forecast/internal/model"
	"maritime-forecast/internal/store/sqlite"
)

type Store interface {
	LoadReference(ctx context.Context) (model.ReferenceData, error)
	SaveReference(ctx context.Context, ref model.ReferenceData) error
	Close() error
}

var (
	_ Store = (*data.DirStore)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Open returns the SQLite store when sqlitePath is set, otherwise the CSV
// directory store rooted at dataDir.
func Open(dataDir, sqlitePath string) (Store, error) {
	if sqlitePath != "" {
		s, err := sqlite.New(sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	}
	if dataDir == "" {
		return nil, fmt.Errorf("store: data dir or sqlite path is required")
	}
	return data.NewDirStore(dataDir), nil
}
