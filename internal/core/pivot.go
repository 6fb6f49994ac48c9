package core

import (
	"errors"
	"sort"
)

// PivotTotalColumn labels the row-wise grand total.
const PivotTotalColumn = "TOTAL GERAL"

// ErrNoPivotData is returned when the verba slice has no rows.
var ErrNoPivotData = errors.New("no records for verba")

// PivotRow is one person of the pivot table.
type PivotRow struct {
	Matricula string
	Nome      string
	// Cells is aligned with PivotTable.Locais.
	Cells []float64
	Total float64
}

// PivotTable is the cota cross-tabulation of people by local for one verba.
type PivotTable struct {
	Verba  int
	Locais []string
	Rows   []PivotRow
}

// Cell returns the cota of row i at the given local, 0 if the local is not a
// column.
func (p PivotTable) Cell(i int, local string) float64 {
	for c, l := range p.Locais {
		if l == local {
			return p.Rows[i].Cells[c]
		}
	}
	return 0
}

// Pivot223 builds the verba 223 pivot.
func Pivot223(v View) (PivotTable, error) {
	return Pivot(v, Verba223)
}

// Pivot sums COTA per (matricula, nome) and local over the rows of the given
// verba, appends the grand total and sorts people by it, highest first.
// Rows without a local, or without both matricula and nome, have no pivot
// key and are skipped. An empty slice returns ErrNoPivotData.
func Pivot(v View, verba int) (PivotTable, error) {
	slice := v.Where(func(r Record) bool {
		return r.Verba == verba && r.Local != "" && (r.Matricula != "" || r.Nome != "")
	})
	if slice.Empty() {
		return PivotTable{}, ErrNoPivotData
	}

	type person struct{ matricula, nome string }

	localSet := map[string]struct{}{}
	for _, r := range slice.rows {
		localSet[r.Local] = struct{}{}
	}
	p := PivotTable{Verba: verba, Locais: sortedStrings(localSet)}
	column := make(map[string]int, len(p.Locais))
	for i, l := range p.Locais {
		column[l] = i
	}

	index := map[person]int{}
	for _, r := range slice.rows {
		key := person{r.Matricula, r.Nome}
		i, ok := index[key]
		if !ok {
			i = len(p.Rows)
			index[key] = i
			p.Rows = append(p.Rows, PivotRow{
				Matricula: r.Matricula,
				Nome:      r.Nome,
				Cells:     make([]float64, len(p.Locais)),
			})
		}
		p.Rows[i].Cells[column[r.Local]] += r.Cota
	}

	for i := range p.Rows {
		var total float64
		for _, c := range p.Rows[i].Cells {
			total += c
		}
		p.Rows[i].Total = total
	}

	sort.Slice(p.Rows, func(i, j int) bool {
		a, b := p.Rows[i], p.Rows[j]
		if a.Matricula != b.Matricula {
			return a.Matricula < b.Matricula
		}
		return a.Nome < b.Nome
	})
	sort.SliceStable(p.Rows, func(i, j int) bool {
		return p.Rows[i].Total > p.Rows[j].Total
	})
	return p, nil
}
