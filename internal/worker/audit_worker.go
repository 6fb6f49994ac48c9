package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pjes/internal/amqp"
	"pjes/internal/core"
	ports "pjes/internal/sheets"
)

// ExportLister reads back the stored export log.
type ExportLister interface {
	ListExports(ctx context.Context, limit int) ([]core.ExportEvent, error)
}

// AuditWorker persists export events consumed from the broker.
type AuditWorker struct {
	recorder ports.ExportRecorder
	lister   ExportLister
}

// NewAuditWorker returns a worker writing to recorder. lister may be nil.
func NewAuditWorker(recorder ports.ExportRecorder, lister ExportLister) *AuditWorker {
	return &AuditWorker{recorder: recorder, lister: lister}
}

// HandleExportEvent stores one message. Messages without a kind are
// dropped without error so they are not redelivered forever.
func (w *AuditWorker) HandleExportEvent(ctx context.Context, msg *amqp.ExportEventMessage) error {
	if w.recorder == nil {
		return errors.New("no export recorder configured")
	}
	if msg == nil || msg.Kind == "" {
		slog.WarnContext(ctx, "Dropping export event without kind")
		return nil
	}

	ev := msg.Event()
	if err := w.recorder.RecordExport(ctx, ev); err != nil {
		return fmt.Errorf("record export event: %w", err)
	}

	slog.InfoContext(ctx, "Export event stored",
		"kind", ev.Kind,
		"file", ev.FileName,
		"rows", ev.Rows,
		"client_ip", ev.ClientIP)
	return nil
}

// StartupCheck logs the most recent stored export so operators can see the
// log is reachable before consumption starts.
func (w *AuditWorker) StartupCheck(ctx context.Context) error {
	if w.lister == nil {
		return nil
	}
	recent, err := w.lister.ListExports(ctx, 1)
	if err != nil {
		return fmt.Errorf("read export log: %w", err)
	}
	if len(recent) == 0 {
		slog.InfoContext(ctx, "Export log is empty")
		return nil
	}
	slog.InfoContext(ctx, "Export log reachable",
		"last_kind", recent[0].Kind,
		"last_at", recent[0].CreatedAt)
	return nil
}
