package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "pjes/internal/log"
)

func newLogger(buf *bytes.Buffer) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Output = buf
	cfg.Level = slog.LevelDebug
	cfg.Component = applog.ComponentHTTP
	return applog.New(cfg)
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	var ctxLogger *applog.Logger
	h := NewMiddleware(newLogger(&buf), func(*http.Request) string { return "1.2.3.4" }).
		Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			ctxLogger = applog.FromContext(r.Context())
			ctxLogger.Info("rendering chart")
			w.WriteHeader(http.StatusNotFound)
		}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/evolucao.svg?verba=223", nil))

	if !strings.HasPrefix(seen, "req_") || rr.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("request id = %q, header = %q", seen, rr.Header().Get(HeaderRequestID))
	}
	if ctxLogger == nil || ctxLogger.Component() != applog.ComponentHTTP {
		t.Fatalf("request logger not installed")
	}
	out := buf.String()
	if !strings.Contains(out, "msg=\"rendering chart\"") || !strings.Contains(out, "request_id="+seen) {
		t.Errorf("request logger lacks request id: %s", out)
	}
	for _, want := range []string{"HTTP request completed", "status_code=404", "client_ip=1.2.3.4", "level=WARN"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}

func TestMiddlewareKeepsValidIncomingID(t *testing.T) {
	var buf bytes.Buffer
	h := NewMiddleware(newLogger(&buf), nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	tests := []struct {
		in   string
		keep bool
	}{
		{"abc-123_X", true},
		{"bad id", false},
		{"<script>", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, tt.in)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		got := rr.Header().Get(HeaderRequestID)
		if (got == tt.in) != tt.keep {
			t.Errorf("incoming %q -> %q", tt.in, got)
		}
	}
}
