// Package core holds the PJES domain: typed records, the month normalizer,
// the filter engine, aggregations and the verba pivot.
//
// This file contains the lenient numeric coercions applied to spreadsheet
// cells at decode time.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces a TOTAL cell. It accepts plain numbers ("1234.5"),
// a decimal comma ("1234,5"), Brazilian thousands grouping ("1.234,50") and
// an optional "R$" prefix. Anything else yields an invalid Amount that keeps
// the raw text.
func ParseAmount(raw string) Amount {
	a := Amount{Raw: strings.TrimSpace(raw)}
	d, ok := parseDecimal(a.Raw)
	if !ok {
		return a
	}
	a.Value = d
	a.Valid = true
	return a
}

// ParseQuantity coerces a COTA cell. Empty or non-numeric cells count as 0.
func ParseQuantity(raw string) float64 {
	d, ok := parseDecimal(strings.TrimSpace(raw))
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

// ParseCode coerces integer-like cells (VERBA, EXERCÍCIO). Spreadsheets often
// store them as floats ("223.0"); fractional values are rejected.
func ParseCode(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		// pt-BR: dots group thousands, the comma is the decimal separator
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
