package sheets

import (
	"context"

	"pjes/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordLoader reads the whole PJES table. It is called once at startup.
	RecordLoader interface {
		LoadRecords(ctx context.Context) ([]core.Record, error)
	}

	// ExportRecorder persists the audit trail of generated downloads.
	ExportRecorder interface {
		RecordExport(ctx context.Context, ev core.ExportEvent) error
	}
)
