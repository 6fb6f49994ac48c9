package core

// Report is the outcome of one recomputation pass for a selection.
type Report struct {
	Selection Selection
	KPIs      KPIs
	Locais    []GroupTotal
	Evolucao  []MonthTotal
	Cargos    []GroupTotal
	Detail    []Record
	Pivot     PivotTable
	// HasPivot is false when the verba 223 slice is empty.
	HasPivot bool
}

// BuildReport filters ds and computes every dashboard block.
func BuildReport(ds *Dataset, sel Selection) Report {
	view := Apply(ds, sel)
	rep := Report{
		Selection: sel,
		KPIs:      Summarize(view),
		Locais:    ByLocation(view, TopLocations),
		Evolucao:  ByMonth(view),
		Detail:    view.SortedByTotal(),
	}
	if !view.Empty() {
		rep.Cargos = ByRole(view)
	}
	if pivot, err := Pivot223(view); err == nil {
		rep.Pivot = pivot
		rep.HasPivot = true
	}
	return rep
}
