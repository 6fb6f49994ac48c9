package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"pjes/internal/core"
)

func readSheet(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	return rows
}

func TestWriteDetailXLSX(t *testing.T) {
	rows := []core.Record{
		{Matricula: "M1", Nome: "Ana", Cargo: "SD", Operativa: "BPM1", Local: "Recife",
			Exercicio: 2024, Competencia: core.NormalizeMonth("march"), Verba: 223, Cota: 5,
			Total: core.ParseAmount("1500.5")},
		{Matricula: "M2", Nome: "Bea", Competencia: core.MonthUnknown, Verba: 423, Cota: 2,
			Total: core.ParseAmount("N/A")},
	}

	var buf bytes.Buffer
	if err := WriteDetailXLSX(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := readSheet(t, buf.Bytes())
	if len(got) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(got))
	}
	if strings.Join(got[0], "|") != strings.Join(DetailColumns, "|") {
		t.Fatalf("header = %v", got[0])
	}
	want := []string{"M1", "Ana", "SD", "BPM1", "Recife", "MARÇO", "5", "223", "1500.5"}
	if strings.Join(got[1], "|") != strings.Join(want, "|") {
		t.Fatalf("row 1 = %v, want %v", got[1], want)
	}
	if got[2][5] != "" || got[2][8] != "N/A" {
		t.Fatalf("row 2 = %v", got[2])
	}
}

func TestWriteDetailXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDetailXLSX(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := readSheet(t, buf.Bytes()); len(got) != 1 {
		t.Fatalf("rows = %d, want header only", len(got))
	}
}

func TestWritePivotXLSX(t *testing.T) {
	p := core.PivotTable{
		Verba:  223,
		Locais: []string{"Olinda", "Recife"},
		Rows: []core.PivotRow{
			{Matricula: "M2", Nome: "Bea", Cells: []float64{3, 4}, Total: 7},
			{Matricula: "M1", Nome: "Ana", Cells: []float64{0, 2.5}, Total: 2.5},
		},
	}

	var buf bytes.Buffer
	if err := WritePivotXLSX(&buf, p); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := readSheet(t, buf.Bytes())
	if strings.Join(got[0], "|") != "MATRICULA|NOME|Olinda|Recife|TOTAL GERAL" {
		t.Fatalf("header = %v", got[0])
	}
	if strings.Join(got[1], "|") != "M2|Bea|3|4|7" || strings.Join(got[2], "|") != "M1|Ana|0|2.5|2.5" {
		t.Fatalf("rows = %v", got[1:])
	}

	if err := WritePivotXLSX(&buf, core.PivotTable{}); !errors.Is(err, core.ErrNoPivotData) {
		t.Fatalf("expected ErrNoPivotData, got %v", err)
	}
}

func TestWriteGroupCSV(t *testing.T) {
	groups := []core.GroupTotal{
		{Name: "Recife", Total: decimal.RequireFromString("1234.5")},
		{Name: "Olinda; Centro", Total: decimal.RequireFromString("10")},
	}
	var buf bytes.Buffer
	if err := WriteGroupCSV(&buf, LabelLocal, groups); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "LOCAL DA PRESTAÇÃO DO SERVIÇO;TOTAL\r\n" +
		"Recife;R$ 1.234,50\r\n" +
		"\"Olinda; Centro\";R$ 10,00\r\n"
	if buf.String() != want {
		t.Fatalf("csv = %q, want %q", buf.String(), want)
	}
}

func TestMonthGroups(t *testing.T) {
	got := MonthGroups([]core.MonthTotal{{Month: core.NormalizeMonth("May"), Total: decimal.NewFromInt(3)}})
	if len(got) != 1 || got[0].Name != "MAIO" {
		t.Fatalf("groups = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"reais", FormatReais(decimal.RequireFromString("1234567.891")), "R$ 1.234.567,89"},
		{"reais zero", FormatReais(decimal.Zero), "R$ 0,00"},
		{"number", FormatNumber(12345), "12.345"},
		{"number truncates", FormatNumber(12.9), "12"},
		{"quantity whole", FormatQuantity(1500), "1.500"},
		{"quantity fraction", FormatQuantity(2.5), "2,50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
