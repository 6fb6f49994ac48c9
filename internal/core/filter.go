package core

import (
	"net/url"
	"strconv"
)

// AllOption is the dropdown sentinel meaning "no constraint".
const AllOption = "Todos"

// Filter is an optional equality constraint on one dimension: either
// unconstrained (the zero value) or Equals(v).
type Filter[T comparable] struct {
	value T
	set   bool
}

// Any returns an unconstrained filter.
func Any[T comparable]() Filter[T] {
	return Filter[T]{}
}

// Equals returns a filter that keeps only rows whose field equals v.
func Equals[T comparable](v T) Filter[T] {
	return Filter[T]{value: v, set: true}
}

// Matches reports whether v satisfies the constraint.
func (f Filter[T]) Matches(v T) bool {
	return !f.set || f.value == v
}

// Value returns the constrained value and whether the filter is active.
func (f Filter[T]) Value() (T, bool) {
	return f.value, f.set
}

// Active reports whether the filter constrains anything.
func (f Filter[T]) Active() bool {
	return f.set
}

// Selection holds the five dashboard filters. The zero value selects
// everything.
type Selection struct {
	Exercicio   Filter[int]
	Competencia Filter[Month]
	Operativa   Filter[string]
	Local       Filter[string]
	Verba       Filter[int]
}

// Matches evaluates the conjunction of all active constraints.
func (s Selection) Matches(r Record) bool {
	return s.Exercicio.Matches(r.Exercicio) &&
		s.Competencia.Matches(r.Competencia) &&
		s.Operativa.Matches(r.Operativa) &&
		s.Local.Matches(r.Local) &&
		s.Verba.Matches(r.Verba)
}

// Query renders the selection as URL query parameters. Unconstrained
// dimensions are omitted, so the empty selection encodes to "".
func (s Selection) Query() url.Values {
	q := url.Values{}
	if v, ok := s.Exercicio.Value(); ok {
		q.Set("exercicio", strconv.Itoa(v))
	}
	if v, ok := s.Competencia.Value(); ok {
		q.Set("competencia", v.String())
	}
	if v, ok := s.Operativa.Value(); ok {
		q.Set("operativa", v)
	}
	if v, ok := s.Local.Value(); ok {
		q.Set("local", v)
	}
	if v, ok := s.Verba.Value(); ok {
		q.Set("verba", strconv.Itoa(v))
	}
	return q
}

// Key is a canonical string for caching; equal selections share a key.
func (s Selection) Key() string {
	return s.Query().Encode()
}

// Apply derives the filtered view of ds. The dataset is never modified and
// the view owns its rows.
func Apply(ds *Dataset, sel Selection) View {
	if ds == nil {
		return View{}
	}
	rows := make([]Record, 0, ds.Len())
	for _, r := range ds.records {
		if sel.Matches(r) {
			rows = append(rows, r)
		}
	}
	return View{rows: rows}
}
