package services

import (
	"log/slog"

	"pjes/internal/cache"
	"pjes/internal/core"
)

// ReportService builds dashboard reports over one loaded dataset, memoizing
// them per filter selection.
type ReportService struct {
	dataset *core.Dataset
	reports cache.Cache[core.Report]
}

// NewReportService wraps ds. A nil cache disables memoization.
func NewReportService(ds *core.Dataset, reports cache.Cache[core.Report]) *ReportService {
	return &ReportService{dataset: ds, reports: reports}
}

func (s *ReportService) Dataset() *core.Dataset { return s.dataset }

// Options returns the distinct values offered by each filter control.
func (s *ReportService) Options() core.FilterOptions { return s.dataset.Options() }

// Report returns the report for sel. Reports are read-only once built, so
// a cached value is shared between requests.
func (s *ReportService) Report(sel core.Selection) core.Report {
	if s.reports == nil {
		return core.BuildReport(s.dataset, sel)
	}
	return s.reports.GetOrCompute(sel.Key(), func() core.Report {
		slog.Debug("Building report", "selection", sel.Key())
		return core.BuildReport(s.dataset, sel)
	})
}
