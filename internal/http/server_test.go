package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"pjes/internal/cache"
	"pjes/internal/core"
	"pjes/internal/services"
	"pjes/internal/sheets/memory"
)

func testRecords() []core.Record {
	return []core.Record{
		{Matricula: "M1", Nome: "Ana", Cargo: "SD", Exercicio: 2024, Competencia: 2, Operativa: "20º BPM", Local: "Recife", Verba: 223, Cota: 5, Total: core.NewAmount(decimal.RequireFromString("1500.50"))},
		{Matricula: "M2", Nome: "Bea", Cargo: "CB", Exercicio: 2024, Competencia: 3, Operativa: "20º BPM", Local: "Olinda", Verba: 423, Cota: 2, Total: core.NewAmount(decimal.RequireFromString("800"))},
		{Matricula: "M1", Nome: "Ana", Cargo: "SD", Exercicio: 2024, Competencia: 3, Operativa: "20º BPM", Local: "Olinda", Verba: 223, Cota: 3, Total: core.NewAmount(decimal.RequireFromString("900"))},
	}
}

type testServer struct {
	*Server
	store *memory.Store
}

func newTestServer(t *testing.T, opts Options) testServer {
	t.Helper()
	recs := testRecords()
	store := memory.New(recs)
	reports := services.NewReportService(core.NewDataset(recs), cache.NewLRUCache[core.Report](16, time.Minute))
	audit := services.NewAuditService(nil, store)
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	}
	srv := NewServer(":0", reports, audit, opts)
	t.Cleanup(func() { srv.limiter.Stop() })
	return testServer{Server: srv, store: store}
}

func (ts testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestDashboardPage(t *testing.T) {
	ts := newTestServer(t, Options{})

	rr := ts.get(t, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Dashboard PJES",
		"3.200,50",
		"Dashboard PJES | 01/03/2024 10:30",
		`<option value="MARÇO">MARÇO</option>`,
		`<option value="Todos" selected>Todos</option>`,
		"/charts/evolucao.svg",
		"Tabela Dinâmica",
		"TOTAL GERAL",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, `src="/logo"`) {
		t.Errorf("logo rendered without a logo file")
	}
}

func TestDashboardFiltersAndFallback(t *testing.T) {
	ts := newTestServer(t, Options{})

	rr := ts.get(t, "/?verba=423&local=Olinda")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `<option value="423" selected>423</option>`) {
		t.Errorf("verba option not selected")
	}
	if !strings.Contains(body, "Nenhum registro para VERBA 223.") {
		t.Errorf("pivot no-data message missing")
	}
	if !strings.Contains(body, "/export/dados.xlsx?local=Olinda&amp;verba=423") {
		t.Errorf("export link does not carry the filters")
	}

	rr = ts.get(t, "/?verba=abc")
	if rr.Code != http.StatusOK {
		t.Fatalf("invalid filter status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "3.200,50") {
		t.Errorf("invalid verba should fall back to Todos")
	}
}

func TestChartEndpoints(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, name := range []string{"locais-bar", "locais-pie", "evolucao", "cargo"} {
		rr := ts.get(t, "/charts/"+name+".svg")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", name, rr.Code)
		}
		if rr.Header().Get("Content-Type") != "image/svg+xml" {
			t.Fatalf("%s content type = %q", name, rr.Header().Get("Content-Type"))
		}
		if !strings.Contains(rr.Body.String(), "<svg") {
			t.Fatalf("%s is not svg", name)
		}
	}

	rr := ts.get(t, "/charts/cargo.svg?local=Nowhere")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Sem dados") {
		t.Fatalf("empty chart should be a placeholder, got %d", rr.Code)
	}

	for _, path := range []string{"/charts/unknown.svg", "/charts/evolucao.png"} {
		if rr := ts.get(t, path); rr.Code != http.StatusNotFound {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestExportDetailXLSX(t *testing.T) {
	ts := newTestServer(t, Options{})

	rr := ts.get(t, "/export/dados.xlsx?exercicio=2024")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="dados_filtrados.xlsx"` {
		t.Fatalf("disposition = %q", got)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "MATRICULA" || rows[0][8] != "TOTAL" {
		t.Fatalf("rows = %v", rows)
	}
	// highest TOTAL first
	if rows[1][0] != "M1" || rows[1][4] != "Recife" {
		t.Fatalf("first row = %v", rows[1])
	}

	evs := ts.store.Exports()
	if len(evs) != 1 {
		t.Fatalf("audit events = %d", len(evs))
	}
	if evs[0].Kind != core.ExportDetail || evs[0].Rows != 3 || evs[0].Selection != "exercicio=2024" || evs[0].ClientIP != "192.0.2.1" {
		t.Fatalf("event = %+v", evs[0])
	}
}

func TestExportPivotNoData(t *testing.T) {
	ts := newTestServer(t, Options{})

	rr := ts.get(t, "/export/pivot223.xlsx?verba=423")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Nenhum registro para VERBA 223.") {
		t.Fatalf("body = %q", rr.Body.String())
	}
	if len(ts.store.Exports()) != 0 {
		t.Fatalf("no-data download must not be audited")
	}

	rr = ts.get(t, "/export/pivot223.xlsx")
	if rr.Code != http.StatusOK {
		t.Fatalf("pivot status = %d", rr.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Sheet1")
	if len(rows) != 2 || rows[0][len(rows[0])-1] != core.PivotTotalColumn || rows[1][len(rows[1])-1] != "8" {
		t.Fatalf("pivot rows = %v", rows)
	}
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		path     string
		fileName string
		header   string
		rows     int
	}{
		{"/export/evolucao.csv", "Evolucao.csv", "COMPETÊNCIA;TOTAL", 2},
		{"/export/cargo.csv", "Cargo.csv", "CARGO;TOTAL", 2},
		{"/export/locais.csv", "Locais.csv", "LOCAL DA PRESTAÇÃO DO SERVIÇO;TOTAL", 2},
	}
	for _, tt := range tests {
		rr := ts.get(t, tt.path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", tt.path, rr.Code)
		}
		if !strings.Contains(rr.Header().Get("Content-Disposition"), tt.fileName) {
			t.Fatalf("%s disposition = %q", tt.path, rr.Header().Get("Content-Disposition"))
		}
		lines := strings.Split(strings.TrimSuffix(rr.Body.String(), "\r\n"), "\r\n")
		if lines[0] != tt.header || len(lines) != tt.rows+1 {
			t.Fatalf("%s lines = %q", tt.path, lines)
		}
	}

	if rr := ts.get(t, "/export/other.csv"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown export status = %d", rr.Code)
	}
	if got := len(ts.store.Exports()); got != len(tests) {
		t.Fatalf("audit events = %d", got)
	}
}

func TestExportRateLimit(t *testing.T) {
	ts := newTestServer(t, Options{ExportRateLimit: 2})

	for i := 0; i < 2; i++ {
		if rr := ts.get(t, "/export/cargo.csv"); rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, rr.Code)
		}
	}
	if rr := ts.get(t, "/export/cargo.csv"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rr.Code)
	}
	// the page itself is not limited
	if rr := ts.get(t, "/"); rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
}

func TestLogo(t *testing.T) {
	missing := newTestServer(t, Options{LogoPath: filepath.Join(t.TempDir(), "logo_sds.png")})
	if rr := missing.get(t, "/logo"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing logo status = %d", rr.Code)
	}

	path := filepath.Join(t.TempDir(), "logo_sds.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatalf("write logo: %v", err)
	}
	ts := newTestServer(t, Options{LogoPath: path})
	if rr := ts.get(t, "/logo"); rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("logo status = %d type = %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(ts.get(t, "/").Body.String(), `src="/logo"`) {
		t.Fatalf("logo not rendered")
	}
}

func TestHealthReadyAndHeaders(t *testing.T) {
	ts := newTestServer(t, Options{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := ts.get(t, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if rr.Header().Get("X-Request-ID") == "" || rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("%s headers = %v", path, rr.Header())
		}
	}

	notReady := NewServer(":0", nil, nil, Options{})
	t.Cleanup(func() { notReady.limiter.Stop() })
	rr := httptest.NewRecorder()
	notReady.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz without dataset = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST / status = %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	ts := newTestServer(t, Options{})
	rr := ts.get(t, "/static/style.css")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Cache-Control"), "max-age=3600") {
		t.Fatalf("status = %d cache = %q", rr.Code, rr.Header().Get("Cache-Control"))
	}
}
