// Command pjes-import loads PJES workbooks into the SQLite snapshot served
// by DATA_BACKEND=sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pjes/internal/cli"
	applog "pjes/internal/log"
	"pjes/internal/sheets/xlsx"
	"pjes/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("import")

	files := flag.String("file", "PJES.xlsx", "comma separated workbook paths")
	sheet := flag.String("sheet", os.Getenv("PJES_SHEET"), "sheet name (default: first sheet)")
	dbPath := flag.String("db", envOr("SQLITE_DB_PATH", "./data/pjes.db"), "SQLite database path")
	flag.Parse()

	if err := run(logger, *files, *sheet, *dbPath); err != nil {
		logger.Error("Import failed", applog.FieldError, err, applog.FieldOperation, applog.OpImport)
		os.Exit(1)
	}
}

func run(logger *applog.Logger, files, sheet, dbPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ds, err := cli.LoadDataset(ctx, logger, xlsx.New(strings.Split(files, ","), sheet))
	if err != nil {
		return fmt.Errorf("read workbooks %s: %w", files, err)
	}

	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer repo.Close()

	if err := repo.ReplaceRecords(ctx, ds.Records()); err != nil {
		return err
	}
	logger.Info("Import complete", applog.FieldRecords, ds.Len(), "path", dbPath)
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
