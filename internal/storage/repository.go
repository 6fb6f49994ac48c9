package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pjes/internal/core"
	ports "pjes/internal/sheets"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.RecordLoader   = (*SQLiteRepository)(nil)
	_ ports.ExportRecorder = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := Migrate(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceRecords swaps the stored table for recs in a single transaction.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, recs []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(matricula, nome, cargo, operativa, local, exercicio, competencia, verba, cota, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.Matricula, rec.Nome, rec.Cargo, rec.Operativa, rec.Local,
			rec.Exercicio, int(rec.Competencia), rec.Verba, rec.Cota, rec.Total.Raw,
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Records replaced in SQLite", "count", len(recs))
	return nil
}

// LoadRecords implements sheets.RecordLoader. Rows come back in insertion
// order.
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		matricula, nome, cargo, operativa, local, exercicio, competencia, verba, cota, total
		FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var (
			rec         core.Record
			competencia int
			total       string
		)
		if err := rows.Scan(&rec.Matricula, &rec.Nome, &rec.Cargo, &rec.Operativa, &rec.Local,
			&rec.Exercicio, &competencia, &rec.Verba, &rec.Cota, &total); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Competencia = core.Month(competencia)
		if !rec.Competencia.Valid() {
			rec.Competencia = core.MonthUnknown
		}
		rec.Total = core.ParseAmount(total)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// RecordExport implements sheets.ExportRecorder.
func (r *SQLiteRepository) RecordExport(ctx context.Context, ev core.ExportEvent) error {
	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO export_log
		(kind, file_name, selection, row_count, client_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Kind, ev.FileName, ev.Selection, ev.Rows, ev.ClientIP, createdAt.UTC())
	if err != nil {
		return fmt.Errorf("insert export event: %w", err)
	}
	id, _ := res.LastInsertId()
	slog.DebugContext(ctx, "Export event stored", "id", id, "kind", ev.Kind, "rows", ev.Rows)
	return nil
}

// ListExports returns the most recent export events, newest first.
func (r *SQLiteRepository) ListExports(ctx context.Context, limit int) ([]core.ExportEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT kind, file_name, selection, row_count, client_ip, created_at
		FROM export_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query export log: %w", err)
	}
	defer rows.Close()

	var out []core.ExportEvent
	for rows.Next() {
		var ev core.ExportEvent
		if err := rows.Scan(&ev.Kind, &ev.FileName, &ev.Selection, &ev.Rows, &ev.ClientIP, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export log: %w", err)
	}
	return out, nil
}
