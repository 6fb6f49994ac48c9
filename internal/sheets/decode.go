package sheets

import (
	"errors"
	"fmt"
	"strings"

	"pjes/internal/core"
)

// Source column headers. Matching is exact (case and accents) after
// trimming surrounding spaces.
const (
	ColExercicio   = "EXERCÍCIO"
	ColCompetencia = "COMPETÊNCIA"
	ColOperativa   = "OPERATIVA QUE PRESTOU SERVIÇO"
	ColLocal       = "LOCAL DA PRESTAÇÃO DO SERVIÇO"
	ColVerba       = "VERBA"
	ColCota        = "COTA"
	ColTotal       = "TOTAL"
	ColMatricula   = "MATRICULA"
	ColNome        = "NOME"
	ColCargo       = "CARGO"
)

// RequiredColumns lists every header the loader needs.
var RequiredColumns = []string{
	ColExercicio, ColCompetencia, ColOperativa, ColLocal, ColVerba,
	ColCota, ColTotal, ColMatricula, ColNome, ColCargo,
}

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// DecodeRows converts a values matrix whose first row is the header into
// typed records. Blank rows are skipped.
func DecodeRows(rows [][]string) ([]core.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}
	col, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]core.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		get := func(name string) string {
			return safeGet(row, col[name])
		}
		exercicio, _ := core.ParseCode(get(ColExercicio))
		verba, _ := core.ParseCode(get(ColVerba))
		out = append(out, core.Record{
			Matricula:   get(ColMatricula),
			Nome:        get(ColNome),
			Cargo:       get(ColCargo),
			Operativa:   get(ColOperativa),
			Local:       get(ColLocal),
			Exercicio:   exercicio,
			Competencia: core.NormalizeMonth(get(ColCompetencia)),
			Verba:       verba,
			Cota:        core.ParseQuantity(get(ColCota)),
			Total:       core.ParseAmount(get(ColTotal)),
		})
	}
	return out, nil
}

// ToStrings flattens an API values row into trimmed strings.
func ToStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func headerIndex(header []string) (map[string]int, error) {
	col := make(map[string]int, len(RequiredColumns))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s; got headers=%v", ErrMissingColumn, strings.Join(missing, ", "), header)
	}
	return col, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return strings.TrimSpace(arr[idx])
}
