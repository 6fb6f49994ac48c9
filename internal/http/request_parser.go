package http

import (
	"fmt"
	"net/url"
	"strings"

	"pjes/internal/core"
)

// Query parameter names of the five filters.
const (
	ParamExercicio   = "exercicio"
	ParamCompetencia = "competencia"
	ParamOperativa   = "operativa"
	ParamLocal       = "local"
	ParamVerba       = "verba"
)

// ParamError reports a filter value that could not be interpreted. The
// filter falls back to "Todos".
type ParamError struct {
	Param string
	Value string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Param, e.Value)
}

// ParseSelection reads the filter controls from query values. Missing
// values and "Todos" leave a dimension unconstrained; invalid values do the
// same and are reported in the returned slice.
func ParseSelection(q url.Values) (core.Selection, []error) {
	var sel core.Selection
	var errs []error

	if v, ok := param(q, ParamExercicio); ok {
		if n, ok := core.ParseCode(v); ok {
			sel.Exercicio = core.Equals(n)
		} else {
			errs = append(errs, &ParamError{Param: ParamExercicio, Value: v})
		}
	}
	if v, ok := param(q, ParamCompetencia); ok {
		if m, ok := core.ParseMonthLabel(v); ok {
			sel.Competencia = core.Equals(m)
		} else {
			errs = append(errs, &ParamError{Param: ParamCompetencia, Value: v})
		}
	}
	if v, ok := param(q, ParamOperativa); ok {
		sel.Operativa = core.Equals(v)
	}
	if v, ok := param(q, ParamLocal); ok {
		sel.Local = core.Equals(v)
	}
	if v, ok := param(q, ParamVerba); ok {
		if n, ok := core.ParseCode(v); ok {
			sel.Verba = core.Equals(n)
		} else {
			errs = append(errs, &ParamError{Param: ParamVerba, Value: v})
		}
	}
	return sel, errs
}

// param returns the trimmed value of name unless it is empty or "Todos".
func param(q url.Values, name string) (string, bool) {
	v := strings.TrimSpace(q.Get(name))
	if v == "" || v == core.AllOption {
		return "", false
	}
	return v, true
}
