package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// TopLocations is the length of the by-location ranking.
const TopLocations = 10

// KPIs are the indicators shown above the charts.
type KPIs struct {
	ValorTotal     decimal.Decimal
	Cotas          float64
	Cotas223       float64
	Cotas423       float64
	Pessoas        int
	Locais         int
	MediaPorPessoa decimal.Decimal
	Registros      int
}

// GroupTotal is one row of a grouped summary.
type GroupTotal struct {
	Name  string
	Total decimal.Decimal
}

// MonthTotal is one point of the monthly evolution.
type MonthTotal struct {
	Month Month
	Total decimal.Decimal
}

// Summarize computes the KPI bundle. Non-numeric totals add nothing to the
// monetary sums.
func Summarize(v View) KPIs {
	k := KPIs{ValorTotal: decimal.Zero, MediaPorPessoa: decimal.Zero, Registros: v.Len()}
	pessoas := map[string]struct{}{}
	locais := map[string]struct{}{}
	for _, r := range v.rows {
		if r.Total.Valid {
			k.ValorTotal = k.ValorTotal.Add(r.Total.Value)
		}
		k.Cotas += r.Cota
		switch r.Verba {
		case Verba223:
			k.Cotas223 += r.Cota
		case Verba423:
			k.Cotas423 += r.Cota
		}
		if r.Matricula != "" {
			pessoas[r.Matricula] = struct{}{}
		}
		if r.Local != "" {
			locais[r.Local] = struct{}{}
		}
	}
	k.Pessoas = len(pessoas)
	k.Locais = len(locais)
	if k.Pessoas > 0 {
		k.MediaPorPessoa = k.ValorTotal.Div(decimal.NewFromInt(int64(k.Pessoas)))
	}
	return k
}

// ByLocation sums TOTAL per local, highest first, keeping at most limit
// groups. Ties keep group order (by name). A non-positive limit keeps all
// groups.
func ByLocation(v View, limit int) []GroupTotal {
	groups := groupTotals(v.rows, func(r Record) (string, bool) {
		return r.Local, r.Local != ""
	})
	sortDescending(groups)
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ByMonth sums TOTAL per competência in chronological order. Months without
// rows and unknown months are left out.
func ByMonth(v View) []MonthTotal {
	var sums [len(Months)]decimal.Decimal
	var seen [len(Months)]bool
	for _, r := range v.rows {
		if !r.Competencia.Valid() {
			continue
		}
		if !seen[r.Competencia] {
			seen[r.Competencia] = true
			sums[r.Competencia] = decimal.Zero
		}
		if r.Total.Valid {
			sums[r.Competencia] = sums[r.Competencia].Add(r.Total.Value)
		}
	}
	out := []MonthTotal{}
	for m := range Months {
		if seen[m] {
			out = append(out, MonthTotal{Month: Month(m), Total: sums[m]})
		}
	}
	return out
}

// ByRole sums TOTAL per cargo, highest first, ties by name. Rows without a
// cargo or with a non-numeric TOTAL are dropped from this aggregation only.
func ByRole(v View) []GroupTotal {
	eligible := v.Where(func(r Record) bool {
		return r.Cargo != "" && r.Total.Valid
	})
	groups := groupTotals(eligible.rows, func(r Record) (string, bool) {
		return r.Cargo, true
	})
	sortDescending(groups)
	return groups
}

// groupTotals sums TOTAL per key and returns the groups ordered by key.
func groupTotals(rows []Record, key func(Record) (string, bool)) []GroupTotal {
	index := map[string]int{}
	out := []GroupTotal{}
	for _, r := range rows {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(out)
			index[k] = i
			out = append(out, GroupTotal{Name: k, Total: decimal.Zero})
		}
		if r.Total.Valid {
			out[i].Total = out[i].Total.Add(r.Total.Value)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortDescending(groups []GroupTotal) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})
}
