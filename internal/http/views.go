package http

import (
	"errors"
	"html/template"
	"strconv"

	"pjes/internal/core"
	"pjes/internal/export"
)

// detailLimit caps the rows rendered in the page; the XLSX download always
// carries every row.
const detailLimit = 1000

var templateFuncs = template.FuncMap{
	"withQuery": withQuery,
	"dict":      dict,
}

// dict builds a map from alternating keys and values, for passing several
// arguments to a nested template.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// withQuery appends an encoded query string to path.
func withQuery(path, query string) template.URL {
	if query == "" {
		return template.URL(path)
	}
	return template.URL(path + "?" + query)
}

type option struct {
	Value    string
	Selected bool
}

type filterControl struct {
	Name    string
	Label   string
	Options []option
}

type kpi struct {
	Icon  string
	Label string
	Value string
}

type groupRow struct {
	Name  string
	Total string
}

type detailRow struct {
	Cells []string
}

type pivotRow struct {
	Matricula string
	Nome      string
	Cells     []string
	Total     string
}

type pivotView struct {
	Locais      []string
	TotalColumn string
	Rows        []pivotRow
}

type dashboardPage struct {
	Filters         []filterControl
	Query           string
	KPIs            []kpi
	Evolucao        []groupRow
	Cargos          []groupRow
	Locais          []groupRow
	DetailColumns   []string
	Detail          []detailRow
	DetailTotal     int
	DetailTruncated bool
	Pivot           *pivotView
	HasLogo         bool
	Footer          string
}

func newDashboardPage(opts core.FilterOptions, rep core.Report) dashboardPage {
	sel := rep.Selection
	page := dashboardPage{
		Filters: []filterControl{
			intControl(ParamExercicio, "Exercício", opts.Exercicios, sel.Exercicio),
			monthControl(opts.Competencias, sel.Competencia),
			stringControl(ParamOperativa, "Operativa", opts.Operativas, sel.Operativa),
			stringControl(ParamLocal, "Local", opts.Locais, sel.Local),
			intControl(ParamVerba, "Verba", opts.Verbas, sel.Verba),
		},
		Query:         sel.Query().Encode(),
		KPIs:          kpis(rep.KPIs),
		Evolucao:      groupRows(export.MonthGroups(rep.Evolucao)),
		Cargos:        groupRows(rep.Cargos),
		Locais:        groupRows(rep.Locais),
		DetailColumns: export.DetailColumns,
		DetailTotal:   len(rep.Detail),
	}

	rows := rep.Detail
	if len(rows) > detailLimit {
		rows = rows[:detailLimit]
		page.DetailTruncated = true
	}
	page.Detail = make([]detailRow, len(rows))
	for i, r := range rows {
		page.Detail[i] = newDetailRow(r)
	}

	if rep.HasPivot {
		page.Pivot = newPivotView(rep.Pivot)
	}
	return page
}

func kpis(k core.KPIs) []kpi {
	return []kpi{
		{"💰", "Valor Total", export.FormatReais(k.ValorTotal)},
		{"📊", "Cotas", export.FormatNumber(k.Cotas)},
		{"🔴", "Cotas 223", export.FormatNumber(k.Cotas223)},
		{"🔵", "Cotas 423", export.FormatNumber(k.Cotas423)},
		{"👥", "Pessoas", export.FormatNumber(float64(k.Pessoas))},
		{"🏢", "Locais", export.FormatNumber(float64(k.Locais))},
		{"📈", "Média / Pessoa", export.FormatReais(k.MediaPorPessoa)},
		{"📋", "Registros", export.FormatNumber(float64(k.Registros))},
	}
}

func groupRows(groups []core.GroupTotal) []groupRow {
	out := make([]groupRow, len(groups))
	for i, g := range groups {
		out[i] = groupRow{Name: g.Name, Total: export.FormatReais(g.Total)}
	}
	return out
}

func newDetailRow(r core.Record) detailRow {
	verba := ""
	if r.Verba != 0 {
		verba = strconv.Itoa(r.Verba)
	}
	total := r.Total.Raw
	if r.Total.Valid {
		total = export.FormatReais(r.Total.Value)
	}
	return detailRow{Cells: []string{
		r.Matricula,
		r.Nome,
		r.Cargo,
		r.Operativa,
		r.Local,
		r.Competencia.String(),
		export.FormatQuantity(r.Cota),
		verba,
		total,
	}}
}

func newPivotView(p core.PivotTable) *pivotView {
	v := &pivotView{
		Locais:      p.Locais,
		TotalColumn: core.PivotTotalColumn,
		Rows:        make([]pivotRow, len(p.Rows)),
	}
	for i, r := range p.Rows {
		cells := make([]string, len(r.Cells))
		for c, q := range r.Cells {
			cells[c] = export.FormatQuantity(q)
		}
		v.Rows[i] = pivotRow{
			Matricula: r.Matricula,
			Nome:      r.Nome,
			Cells:     cells,
			Total:     export.FormatQuantity(r.Total),
		}
	}
	return v
}

// controlOptions prepends "Todos" and marks the active value, if any. An
// active value absent from the dataset is still listed so the control shows
// what is being filtered.
func controlOptions(values []string, active string, isActive bool) []option {
	out := make([]option, 0, len(values)+2)
	out = append(out, option{Value: core.AllOption, Selected: !isActive})
	found := false
	for _, v := range values {
		selected := isActive && v == active
		found = found || selected
		out = append(out, option{Value: v, Selected: selected})
	}
	if isActive && !found {
		out = append(out, option{Value: active, Selected: true})
	}
	return out
}

func intControl(name, label string, values []int, f core.Filter[int]) filterControl {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = strconv.Itoa(v)
	}
	active, ok := f.Value()
	return filterControl{Name: name, Label: label, Options: controlOptions(labels, strconv.Itoa(active), ok)}
}

func monthControl(values []core.Month, f core.Filter[core.Month]) filterControl {
	labels := make([]string, len(values))
	for i, m := range values {
		labels[i] = m.String()
	}
	active, ok := f.Value()
	return filterControl{Name: ParamCompetencia, Label: "Competência", Options: controlOptions(labels, active.String(), ok)}
}

func stringControl(name, label string, values []string, f core.Filter[string]) filterControl {
	active, ok := f.Value()
	return filterControl{Name: name, Label: label, Options: controlOptions(values, active, ok)}
}
