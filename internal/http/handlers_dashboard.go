package http

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"pjes/internal/core"
	applog "pjes/internal/log"
)

const footerLayout = "02/01/2006 15:04"

// selection parses the filter controls of r, logging values that were
// ignored.
func (s *Server) selection(r *http.Request) core.Selection {
	sel, errs := ParseSelection(r.URL.Query())
	for _, err := range errs {
		var pe *ParamError
		if errors.As(err, &pe) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Ignoring invalid filter value",
				"param", pe.Param,
				"value", pe.Value,
				"fallback", core.AllOption)
		}
	}
	return sel
}

// handleDashboard renders the dashboard page for the requested filters.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", applog.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	sel := s.selection(r)
	rep := s.reports.Report(sel)

	page := newDashboardPage(s.reports.Options(), rep)
	page.HasLogo = s.hasLogo()
	page.Footer = "Dashboard PJES | " + s.now().Format(footerLayout)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Dashboard template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.NewFields().WithSelection(sel.Key()))
		InternalServerError("Erro ao renderizar o painel").Write(w)
		return
	}

	logger.DebugContext(ctx, "Dashboard rendered",
		applog.FieldSelection, sel.Key(),
		applog.FieldRows, rep.KPIs.Registros)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleChart serves one chart panel as SVG. Empty data yields a
// placeholder panel, not an error.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name, ok := strings.CutSuffix(r.PathValue("chart"), ".svg")
	panel, known := chartPanels[name]
	if !ok || !known {
		NotFoundError("Gráfico desconhecido").Write(w)
		return
	}

	rep := s.reports.Report(s.selection(r))

	var buf bytes.Buffer
	if err := panel.render(&buf, rep); err != nil {
		if !errors.Is(err, errNoChartData) {
			applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Chart rendering failed", err,
				applog.ComponentDashboard, applog.OpRender,
				applog.NewFields().WithSelection(rep.Selection.Key()))
		}
		buf.Reset()
		if err := writePlaceholder(&buf, panel.title); err != nil {
			InternalServerError("Erro ao renderizar o gráfico").Write(w)
			return
		}
	}

	NewResponse().
		ContentType("image/svg+xml").
		Header("Cache-Control", "no-cache").
		Body(buf.Bytes()).
		Write(w)
}

func (s *Server) hasLogo() bool {
	if s.logoPath == "" {
		return false
	}
	st, err := os.Stat(s.logoPath)
	return err == nil && st.Mode().IsRegular()
}

// handleLogo serves the optional logo file. A missing file is a plain 404.
func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	if s.logoPath == "" {
		http.NotFound(w, r)
		return
	}
	f, err := os.Open(s.logoPath)
	if err != nil {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Logo not available", "path", s.logoPath)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || !st.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, filepath.Base(s.logoPath), st.ModTime(), f)
}
