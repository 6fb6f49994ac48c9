package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"pjes/internal/core"
	"pjes/internal/export"
	applog "pjes/internal/log"
)

// download describes one file offered by /export/{file}.
type download struct {
	kind        string
	fileName    string
	contentType string
	// write renders the file and returns the number of data rows.
	write func(w io.Writer, rep core.Report) (int, error)
}

var downloads = map[string]download{
	"dados.xlsx": {
		kind: core.ExportDetail, fileName: export.DetailFileName, contentType: export.XLSXContentType,
		write: func(w io.Writer, rep core.Report) (int, error) {
			return len(rep.Detail), export.WriteDetailXLSX(w, rep.Detail)
		},
	},
	"pivot223.xlsx": {
		kind: core.ExportPivot223, fileName: export.PivotFileName, contentType: export.XLSXContentType,
		write: func(w io.Writer, rep core.Report) (int, error) {
			if !rep.HasPivot {
				return 0, core.ErrNoPivotData
			}
			return len(rep.Pivot.Rows), export.WritePivotXLSX(w, rep.Pivot)
		},
	},
	"evolucao.csv": {
		kind: core.ExportEvolucao, fileName: export.EvolucaoFileName, contentType: export.CSVContentType,
		write: func(w io.Writer, rep core.Report) (int, error) {
			return len(rep.Evolucao), export.WriteGroupCSV(w, export.LabelCompetencia, export.MonthGroups(rep.Evolucao))
		},
	},
	"cargo.csv": {
		kind: core.ExportCargo, fileName: export.CargoFileName, contentType: export.CSVContentType,
		write: func(w io.Writer, rep core.Report) (int, error) {
			return len(rep.Cargos), export.WriteGroupCSV(w, export.LabelCargo, rep.Cargos)
		},
	},
	"locais.csv": {
		kind: core.ExportLocais, fileName: export.LocaisFileName, contentType: export.CSVContentType,
		write: func(w io.Writer, rep core.Report) (int, error) {
			return len(rep.Locais), export.WriteGroupCSV(w, export.LabelLocal, rep.Locais)
		},
	},
}

// handleExport builds the requested download for the current filters and
// records it in the audit trail.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	d, ok := downloads[r.PathValue("file")]
	if !ok {
		NotFoundError("Arquivo desconhecido").Write(w)
		return
	}

	sel := s.selection(r)
	rep := s.reports.Report(sel)

	var buf bytes.Buffer
	rows, err := d.write(&buf, rep)
	switch {
	case errors.Is(err, core.ErrNoPivotData):
		logger.InfoContext(ctx, "No verba 223 rows to export", applog.FieldSelection, sel.Key())
		NotFoundError("Nenhum registro para VERBA 223.").Write(w)
		return
	case err != nil:
		applog.NewStructuredLogger(logger).LogError(ctx, "Export generation failed", err,
			applog.ComponentExport, applog.OpExport,
			applog.NewFields().WithExport(d.kind, d.fileName, rows).WithSelection(sel.Key()))
		InternalServerError("Erro ao gerar o arquivo").Write(w)
		return
	}

	NewResponse().
		ContentType(d.contentType).
		Attachment(d.fileName).
		Body(buf.Bytes()).
		Write(w)

	applog.NewStructuredLogger(logger).LogExport(ctx, d.kind, d.fileName, rows, sel.Key())
	s.audit.Record(ctx, core.ExportEvent{
		Kind:      d.kind,
		FileName:  d.fileName,
		Selection: sel.Key(),
		Rows:      rows,
		ClientIP:  s.ips.ClientIP(r),
	})
}
