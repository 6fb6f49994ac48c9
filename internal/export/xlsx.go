package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pjes/internal/core"
)

// Download file names.
const (
	DetailFileName   = "dados_filtrados.xlsx"
	PivotFileName    = "tabela_dinamica_223.xlsx"
	EvolucaoFileName = "Evolucao.csv"
	CargoFileName    = "Cargo.csv"
	LocaisFileName   = "Locais.csv"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType  = "text/csv; charset=utf-8"

	sheetName = "Sheet1"
)

// DetailColumns are the display columns of the detail table, in order.
var DetailColumns = []string{
	"MATRICULA",
	"NOME",
	"CARGO",
	"OPERATIVA QUE PRESTOU SERVIÇO",
	"LOCAL DA PRESTAÇÃO DO SERVIÇO",
	"COMPETÊNCIA",
	"COTA",
	"VERBA",
	"TOTAL",
}

// WriteDetailXLSX writes rows as a single-sheet workbook with a header and
// no index column. Numeric cells stay numeric; a non-numeric TOTAL keeps its
// source text.
func WriteDetailXLSX(w io.Writer, rows []core.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := newSheet(f, DetailColumns)
	if err != nil {
		return err
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, detailRow(r)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return writeWorkbook(f, w)
}

func detailRow(r core.Record) []interface{} {
	row := []interface{}{
		r.Matricula,
		r.Nome,
		r.Cargo,
		r.Operativa,
		r.Local,
		r.Competencia.String(),
		r.Cota,
		nil,
		nil,
	}
	if r.Verba != 0 {
		row[7] = r.Verba
	}
	switch {
	case r.Total.Valid:
		row[8] = r.Total.Value.InexactFloat64()
	case r.Total.Raw != "":
		row[8] = r.Total.Raw
	}
	return row
}

// WritePivotXLSX writes the cota pivot: MATRICULA, NOME, one column per
// local and TOTAL GERAL. An empty table is core.ErrNoPivotData.
func WritePivotXLSX(w io.Writer, p core.PivotTable) error {
	if len(p.Rows) == 0 {
		return core.ErrNoPivotData
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]string, 0, len(p.Locais)+3)
	header = append(header, "MATRICULA", "NOME")
	header = append(header, p.Locais...)
	header = append(header, core.PivotTotalColumn)

	sw, err := newSheet(f, header)
	if err != nil {
		return err
	}
	for i, r := range p.Rows {
		row := make([]interface{}, 0, len(header))
		row = append(row, r.Matricula, r.Nome)
		for _, c := range r.Cells {
			row = append(row, c)
		}
		row = append(row, r.Total)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return writeWorkbook(f, w)
}

// newSheet opens a stream writer on the default sheet and writes a bold
// header row.
func newSheet(f *excelize.File, header []string) (*excelize.StreamWriter, error) {
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("stream writer: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := sw.SetColWidth(1, len(header), 18); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", cells); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return sw, nil
}

func writeWorkbook(f *excelize.File, w io.Writer) error {
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
