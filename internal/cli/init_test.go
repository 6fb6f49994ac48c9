package cli

import (
	"context"
	"errors"
	"testing"

	"pjes/internal/config"
	"pjes/internal/core"
	applog "pjes/internal/log"
	"pjes/internal/sheets/memory"
)

type failingLoader struct{}

func (failingLoader) LoadRecords(context.Context) ([]core.Record, error) {
	return nil, errors.New("workbook locked")
}

func TestLoadDataset(t *testing.T) {
	logger := SetupLogger(applog.ComponentApp)
	store := memory.New([]core.Record{
		{Matricula: "M1", Exercicio: 2024, Local: "Recife", Total: core.ParseAmount("10")},
		{Matricula: "M2", Exercicio: 2025, Local: "Olinda", Total: core.ParseAmount("20")},
	})

	ds, err := LoadDataset(context.Background(), logger, store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 2 || len(ds.Options().Locais) != 2 {
		t.Fatalf("dataset len=%d options=%+v", ds.Len(), ds.Options())
	}

	if _, err := LoadDataset(context.Background(), logger, failingLoader{}); err == nil {
		t.Fatal("expected loader error")
	}
}

func TestSetupLoggerFallsBackOnUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	if l := SetupLogger("test"); l.Component() != "test" {
		t.Fatalf("component = %q", l.Component())
	}
}

func TestInitAuditWithoutBroker(t *testing.T) {
	store := memory.New(nil)
	audit := InitAudit(SetupLogger("test"), &config.Config{}, store)
	audit.Record(context.Background(), core.ExportEvent{Kind: core.ExportLocais, FileName: "Locais.csv"})
	if got := store.Exports(); len(got) != 1 {
		t.Fatalf("exports = %d", len(got))
	}
}
