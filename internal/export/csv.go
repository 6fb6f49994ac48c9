package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"pjes/internal/core"
)

// Labels of the first column of each chart-backed table.
const (
	LabelCompetencia = "COMPETÊNCIA"
	LabelCargo       = "CARGO"
	LabelLocal       = "LOCAL DA PRESTAÇÃO DO SERVIÇO"
)

type groupLine struct {
	Name  string `csv:"name"`
	Total string `csv:"total"`
}

// WriteGroupCSV writes a two column table (label; TOTAL) separated by ";"
// with totals formatted as reais.
func WriteGroupCSV(w io.Writer, label string, groups []core.GroupTotal) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = ';'
	csvWriter.UseCRLF = true

	if err := csvWriter.Write([]string{label, "TOTAL"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	lines := make([]groupLine, len(groups))
	for i, g := range groups {
		lines[i] = groupLine{Name: g.Name, Total: FormatReais(g.Total)}
	}
	if err := gocsv.MarshalCSVWithoutHeaders(lines, csvWriter); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// MonthGroups labels monthly totals with their competência.
func MonthGroups(months []core.MonthTotal) []core.GroupTotal {
	out := make([]core.GroupTotal, len(months))
	for i, m := range months {
		out[i] = core.GroupTotal{Name: m.Month.String(), Total: m.Total}
	}
	return out
}
