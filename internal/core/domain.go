package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verbas with a dedicated KPI.
const (
	Verba223 = 223
	Verba423 = 423
)

type (
	// Amount is a monetary TOTAL cell. Raw keeps the cell text so that
	// non-numeric cells survive into the detail table.
	Amount struct {
		Value decimal.Decimal
		Raw   string
		Valid bool
	}

	// Record is one row of the PJES table. Zero-valued Exercicio/Verba and
	// empty strings stand for empty cells.
	Record struct {
		Matricula   string
		Nome        string
		Cargo       string
		Operativa   string // OPERATIVA QUE PRESTOU SERVIÇO
		Local       string // LOCAL DA PRESTAÇÃO DO SERVIÇO
		Exercicio   int
		Competencia Month
		Verba       int
		Cota        float64
		Total       Amount
	}

	// ExportEvent is the audit trail entry of a generated download.
	ExportEvent struct {
		Kind      string
		FileName  string
		Selection string
		Rows      int
		ClientIP  string
		CreatedAt time.Time
	}
)

// Export kinds.
const (
	ExportDetail   = "detail_xlsx"
	ExportPivot223 = "pivot223_xlsx"
	ExportEvolucao = "evolucao_csv"
	ExportCargo    = "cargo_csv"
	ExportLocais   = "locais_csv"
)

// NewAmount builds a valid Amount from a decimal value.
func NewAmount(v decimal.Decimal) Amount {
	return Amount{Value: v, Raw: v.String(), Valid: true}
}

// AmountFromFloat builds a valid Amount from a float64.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

// String returns the raw cell text.
func (a Amount) String() string {
	return a.Raw
}
