// Package memory keeps the PJES table and the export log in process memory.
// It backs local development and tests.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"pjes/internal/core"
	ports "pjes/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	records []core.Record
	exports []core.ExportEvent
}

var (
	_ ports.RecordLoader   = (*Store)(nil)
	_ ports.ExportRecorder = (*Store)(nil)
)

func New(records []core.Record) *Store {
	return &Store{records: append([]core.Record(nil), records...)}
}

// seedRow mirrors one line of a semicolon separated seed file that uses the
// workbook headers.
type seedRow struct {
	Exercicio   string `csv:"EXERCÍCIO"`
	Competencia string `csv:"COMPETÊNCIA"`
	Operativa   string `csv:"OPERATIVA QUE PRESTOU SERVIÇO"`
	Local       string `csv:"LOCAL DA PRESTAÇÃO DO SERVIÇO"`
	Verba       string `csv:"VERBA"`
	Cota        string `csv:"COTA"`
	Total       string `csv:"TOTAL"`
	Matricula   string `csv:"MATRICULA"`
	Nome        string `csv:"NOME"`
	Cargo       string `csv:"CARGO"`
}

// values follows ports.RequiredColumns order.
func (r seedRow) values() []string {
	return []string{
		r.Exercicio, r.Competencia, r.Operativa, r.Local, r.Verba,
		r.Cota, r.Total, r.Matricula, r.Nome, r.Cargo,
	}
}

// NewFromCSV seeds a store from a semicolon separated file.
func NewFromCSV(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	var seed []seedRow
	if err := gocsv.UnmarshalCSV(reader, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}

	rows := make([][]string, 0, len(seed)+1)
	rows = append(rows, ports.RequiredColumns)
	for _, r := range seed {
		rows = append(rows, r.values())
	}
	recs, err := ports.DecodeRows(rows)
	if err != nil {
		return nil, err
	}
	return New(recs), nil
}

// LoadRecords returns a copy of the stored records.
func (s *Store) LoadRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.records...), nil
}

func (s *Store) RecordExport(_ context.Context, ev core.ExportEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, ev)
	return nil
}

// Exports returns the recorded export events, oldest first.
func (s *Store) Exports() []core.ExportEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ExportEvent(nil), s.exports...)
}
