package google

import (
	"errors"
	"testing"

	ports "pjes/internal/sheets"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"EXERCÍCIO", "COMPETÊNCIA", "OPERATIVA QUE PRESTOU SERVIÇO", "LOCAL DA PRESTAÇÃO DO SERVIÇO", "VERBA", "COTA", "TOTAL", "MATRICULA", "NOME", "CARGO"},
		{2024.0, "January", "BPM1", "Recife", 223.0, 5.0, 1500.25, "M1", "Ana", "SD"},
		{2024.0, "February", "BPM1", "Olinda", 423.0, 2.0, "", "M2", "Bea", "CB"},
		{},
	}
	recs, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0].Exercicio != 2024 || recs[0].Verba != 223 || recs[0].Total.Value.String() != "1500.25" {
		t.Fatalf("record = %+v", recs[0])
	}
	if recs[1].Competencia.String() != "FEVEREIRO" || recs[1].Total.Valid {
		t.Fatalf("record = %+v", recs[1])
	}
}

func TestParseValuesEmptyRange(t *testing.T) {
	recs, err := parseValues(nil)
	if err != nil || recs != nil {
		t.Fatalf("got %v, %v", recs, err)
	}
}

func TestParseValuesMissingHeader(t *testing.T) {
	_, err := parseValues([][]interface{}{{"MATRICULA", "NOME"}})
	if !errors.Is(err, ports.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
