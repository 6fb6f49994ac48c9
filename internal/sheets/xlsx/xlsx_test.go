package xlsx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	ports "pjes/internal/sheets"
)

func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func headerRow() []any {
	return []any{
		"EXERCÍCIO", "COMPETÊNCIA", "OPERATIVA QUE PRESTOU SERVIÇO",
		"LOCAL DA PRESTAÇÃO DO SERVIÇO", "VERBA", "COTA", "TOTAL",
		"MATRICULA", "NOME", "CARGO",
	}
}

func TestLoadRecordsConcatenatesInPathOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeWorkbook(t, dir, "a.xlsx", "PJES", [][]any{
		headerRow(),
		{2024, "January", "BPM1", "Recife", 223, 5, 1234.5, "M1", "Ana", "SD"},
		{2024, "February", "BPM1", "Olinda", 423, 2, "N/A", "M2", "Bea", "CB"},
	})
	second := writeWorkbook(t, dir, "b.xlsx", "PJES", [][]any{
		headerRow(),
		{2025, "March", "BPM2", "Paulista", 223, 1, 100, "M3", "Caio", "SGT"},
	})

	recs, err := New([]string{first, " ", second}, "PJES").LoadRecords(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0].Matricula != "M1" || recs[2].Matricula != "M3" {
		t.Fatalf("order = %s, %s, %s", recs[0].Matricula, recs[1].Matricula, recs[2].Matricula)
	}
	if recs[0].Verba != 223 || recs[0].Exercicio != 2024 || recs[0].Total.Value.String() != "1234.5" {
		t.Fatalf("record = %+v", recs[0])
	}
	if recs[1].Total.Valid || recs[1].Total.Raw != "N/A" {
		t.Fatalf("total = %+v", recs[1].Total)
	}
	if recs[2].Competencia.String() != "MARÇO" {
		t.Fatalf("competencia = %v", recs[2].Competencia)
	}
}

func TestLoadRecordsDefaultsToFirstSheet(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "a.xlsx", "Dados", [][]any{
		headerRow(),
		{2024, "May", "BPM1", "Recife", 223, 5, 10, "M1", "Ana", "SD"},
	})
	recs, err := New([]string{path}, "").LoadRecords(context.Background())
	if err != nil || len(recs) != 1 {
		t.Fatalf("load: recs=%d err=%v", len(recs), err)
	}
}

func TestLoadRecordsErrors(t *testing.T) {
	if _, err := New(nil, "").LoadRecords(context.Background()); err == nil {
		t.Fatalf("expected error without paths")
	}

	dir := t.TempDir()
	if _, err := New([]string{filepath.Join(dir, "missing.xlsx")}, "").LoadRecords(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := writeWorkbook(t, dir, "bad.xlsx", "Sheet1", [][]any{{"MATRICULA", "NOME"}})
	_, err := New([]string{bad}, "").LoadRecords(context.Background())
	if !errors.Is(err, ports.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
