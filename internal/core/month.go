package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Month is a competência in chronological rank: 0 is JANEIRO, 11 is DEZEMBRO.
type Month int

// MonthUnknown marks a competência that could not be mapped.
const MonthUnknown Month = -1

// Months is the canonical competência domain in chronological order.
var Months = [12]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

// monthTranslation maps source labels (English month names, capitalized)
// to their chronological rank.
var monthTranslation = map[string]Month{
	"January": 0, "February": 1, "March": 2,
	"April": 3, "May": 4, "June": 5,
	"July": 6, "August": 7, "September": 8,
	"October": 9, "November": 10, "December": 11,
}

// NormalizeMonth capitalizes a raw competência cell and maps it onto the
// canonical month domain. Unmapped input yields MonthUnknown.
func NormalizeMonth(raw string) Month {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MonthUnknown
	}
	// A Caser is stateful, so each call gets its own.
	if m, ok := monthTranslation[cases.Title(language.English).String(raw)]; ok {
		return m
	}
	return MonthUnknown
}

// ParseMonthLabel resolves a canonical label (JANEIRO..DEZEMBRO).
func ParseMonthLabel(label string) (Month, bool) {
	label = strings.TrimSpace(label)
	for i, l := range Months {
		if l == label {
			return Month(i), true
		}
	}
	return MonthUnknown, false
}

// Valid reports whether m belongs to the canonical domain.
func (m Month) Valid() bool {
	return m >= 0 && int(m) < len(Months)
}

// String returns the canonical label, or "" for an unknown month.
func (m Month) String() string {
	if !m.Valid() {
		return ""
	}
	return Months[m]
}
