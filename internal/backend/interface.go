package backend

import (
	"context"

	ports "pjes/internal/sheets"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is a constructed data source. Recorder is nil when the
// backend cannot keep an export log.
type BackendResult struct {
	Loader   ports.RecordLoader
	Recorder ports.ExportRecorder
	Cleanup  CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// xlsx
	Files []string
	Sheet string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// memory
	SeedCSV string
}

type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, SheetsBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
