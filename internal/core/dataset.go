package core

import (
	"sort"
)

// Dataset is the loaded PJES table. It is read-only after construction and
// safe to share between concurrent requests.
type Dataset struct {
	records []Record
	options FilterOptions
}

// View is a filtered copy of a Dataset.
type View struct {
	rows []Record
}

// FilterOptions lists the values offered by each dropdown, computed from the
// unfiltered dataset. AllOption is not included; callers prepend it.
type FilterOptions struct {
	Exercicios   []int
	Competencias []Month
	Operativas   []string
	Locais       []string
	Verbas       []int
}

// NewDataset copies records into an immutable dataset.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{records: append([]Record(nil), records...)}
	ds.options = buildOptions(ds.records)
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	return append([]Record(nil), d.records...)
}

// Options returns the dropdown values. Option lists are not narrowed by
// other active filters.
func (d *Dataset) Options() FilterOptions {
	if d == nil {
		return FilterOptions{}
	}
	o := d.options
	return FilterOptions{
		Exercicios:   append([]int(nil), o.Exercicios...),
		Competencias: append([]Month(nil), o.Competencias...),
		Operativas:   append([]string(nil), o.Operativas...),
		Locais:       append([]string(nil), o.Locais...),
		Verbas:       append([]int(nil), o.Verbas...),
	}
}

func buildOptions(records []Record) FilterOptions {
	exercicios := map[int]struct{}{}
	months := [len(Months)]bool{}
	operativas := map[string]struct{}{}
	locais := map[string]struct{}{}
	verbas := map[int]struct{}{}

	for _, r := range records {
		if r.Exercicio != 0 {
			exercicios[r.Exercicio] = struct{}{}
		}
		if r.Competencia.Valid() {
			months[r.Competencia] = true
		}
		if r.Operativa != "" {
			operativas[r.Operativa] = struct{}{}
		}
		if r.Local != "" {
			locais[r.Local] = struct{}{}
		}
		if r.Verba != 0 {
			verbas[r.Verba] = struct{}{}
		}
	}

	var o FilterOptions
	for m, present := range months {
		if present {
			o.Competencias = append(o.Competencias, Month(m))
		}
	}
	o.Exercicios = sortedInts(exercicios)
	o.Verbas = sortedInts(verbas)
	o.Operativas = sortedStrings(operativas)
	o.Locais = sortedStrings(locais)
	return o
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// Empty reports whether the view has no rows.
func (v View) Empty() bool {
	return len(v.rows) == 0
}

// Rows returns a copy of the view rows in dataset order.
func (v View) Rows() []Record {
	return append([]Record(nil), v.rows...)
}

// Where narrows the view further with an arbitrary predicate.
func (v View) Where(keep func(Record) bool) View {
	rows := make([]Record, 0, len(v.rows))
	for _, r := range v.rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return View{rows: rows}
}

// SortedByTotal returns the rows ordered by TOTAL descending, the layout of
// the detail table. Non-numeric totals go last; ties keep dataset order.
func (v View) SortedByTotal() []Record {
	rows := v.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Total, rows[j].Total
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Value.GreaterThan(b.Value)
	})
	return rows
}
