// Package xlsx loads the PJES table from local Excel workbooks.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"pjes/internal/core"
	ports "pjes/internal/sheets"
)

// Loader reads one or more workbooks with the same layout. Records are
// concatenated in path order.
type Loader struct {
	paths []string
	sheet string
}

var _ ports.RecordLoader = (*Loader)(nil)

// New returns a loader for the given workbook paths. An empty sheet name
// selects the first sheet of each workbook.
func New(paths []string, sheet string) *Loader {
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return &Loader{paths: clean, sheet: strings.TrimSpace(sheet)}
}

// LoadRecords reads every workbook concurrently.
func (l *Loader) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if len(l.paths) == 0 {
		return nil, errors.New("no workbook configured")
	}

	parts := make([][]core.Record, len(l.paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range l.paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := l.readWorkbook(path)
			if err != nil {
				return fmt.Errorf("read workbook %s: %w", path, err)
			}
			slog.InfoContext(ctx, "Workbook loaded", "path", path, "records", len(recs))
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []core.Record
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func (l *Loader) readWorkbook(path string) ([]core.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = list[0]
	}
	// Raw values keep numbers free of display formatting (thousand
	// separators, currency symbols).
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("get rows of %q: %w", sheet, err)
	}
	return ports.DecodeRows(rows)
}
