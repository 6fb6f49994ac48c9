package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pjes/internal/core"
	ports "pjes/internal/sheets"
)

// ExportPublisher sends export events to a broker.
type ExportPublisher interface {
	PublishExportEvent(ctx context.Context, ev core.ExportEvent) error
	Close() error
}

// AuditService records dashboard downloads. Events go to the broker when
// one is configured, otherwise straight to the recorder. Failures are logged
// and never surface to the download.
type AuditService struct {
	publisher ExportPublisher
	recorder  ports.ExportRecorder
	now       func() time.Time
}

func NewAuditService(publisher ExportPublisher, recorder ports.ExportRecorder) *AuditService {
	return &AuditService{publisher: publisher, recorder: recorder, now: time.Now}
}

// Record stamps and dispatches ev.
func (s *AuditService) Record(ctx context.Context, ev core.ExportEvent) {
	if s == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}

	if s.publisher != nil {
		err := s.publisher.PublishExportEvent(ctx, ev)
		if err == nil {
			return
		}
		slog.ErrorContext(ctx, "Failed to publish export event",
			"kind", ev.Kind, "file", ev.FileName, "error", err)
		// fall through to the local recorder
	}

	if s.recorder != nil {
		if err := s.recorder.RecordExport(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "Failed to record export event",
				"kind", ev.Kind, "file", ev.FileName, "error", err)
		}
		return
	}

	slog.InfoContext(ctx, "Export served",
		"kind", ev.Kind,
		"file", ev.FileName,
		"rows", ev.Rows,
		"selection", ev.Selection)
}

// Close releases the broker connection.
func (s *AuditService) Close() error {
	if s == nil || s.publisher == nil {
		return nil
	}
	if err := s.publisher.Close(); err != nil {
		return fmt.Errorf("close audit publisher: %w", err)
	}
	return nil
}
