// Package export renders dashboard data as downloadable files and carries
// the Brazilian number formatting shared with the HTML views.
package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatReais renders a monetary value as "R$ 1.234,56".
func FormatReais(v decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", v.Round(2).InexactFloat64())
}

// FormatNumber renders the integer part of v with "." grouping.
func FormatNumber(v float64) string {
	return printer.Sprintf("%d", int64(v))
}

// FormatQuantity renders a cota. Whole values drop the decimals.
func FormatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return FormatNumber(v)
	}
	return printer.Sprintf("%.2f", v)
}
