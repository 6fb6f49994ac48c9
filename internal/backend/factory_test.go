package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pjes/internal/config"
)

func TestBackendType_IsValid(t *testing.T) {
	for _, s := range GetBackendTypeStrings() {
		if !BackendType(s).IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BackendType("csv").IsValid() {
		t.Error("csv should be invalid")
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "csv"}); err == nil {
		t.Fatal("expected error for invalid backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend: "xlsx",
		Files:       []string{"a.xlsx", "b.xlsx"},
		Sheet:       "PJES",
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if cfg.Type != XLSXBackend || len(cfg.Files) != 2 || cfg.Sheet != "PJES" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"xlsx with files", Config{Type: XLSXBackend, Files: []string{"a.xlsx"}}, false},
		{"xlsx without files", Config{Type: XLSXBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"memory without seed", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		defer res.Close()
		if res.Loader == nil || res.Recorder == nil {
			t.Fatalf("result = %+v", res)
		}
		recs, err := res.Loader.LoadRecords(ctx)
		if err != nil || len(recs) != 0 {
			t.Fatalf("load: %v %v", recs, err)
		}
	})

	t.Run("memory with seed", func(t *testing.T) {
		seed := filepath.Join(t.TempDir(), "seed.csv")
		content := "EXERCÍCIO;COMPETÊNCIA;OPERATIVA QUE PRESTOU SERVIÇO;LOCAL DA PRESTAÇÃO DO SERVIÇO;VERBA;COTA;TOTAL;MATRICULA;NOME;CARGO\n" +
			"2024;May;BPM1;Recife;223;1;100;M1;Ana;SD\n"
		if err := os.WriteFile(seed, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend, SeedCSV: seed})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		recs, _ := res.Loader.LoadRecords(ctx)
		if len(recs) != 1 {
			t.Fatalf("records = %d", len(recs))
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "pjes.db")})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		defer res.Close()
		if res.Recorder == nil || res.Cleanup == nil {
			t.Fatalf("sqlite backend should keep an export log")
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: XLSXBackend, Files: []string{"PJES.xlsx"}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Recorder != nil {
			t.Fatal("xlsx backend has no export log")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: SheetsBackend}); err == nil {
			t.Fatal("expected error")
		}
	})
}
