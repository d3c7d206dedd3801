package core

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SortOrder describes the display order the store currently holds.
type SortOrder struct {
	Field     string `json:"field"`
	Ascending bool   `json:"ascending"`
}

// Search returns a new table holding the rows where every field with a
// non-empty filter contains that filter as a case-insensitive substring.
// values is positional in canonical field order, whatever the column order
// of the loaded file; missing trailing entries are unconstrained. A
// non-empty filter on a canonical field the table lacks fails with
// *UnknownFieldError. An empty result is not an error.
func (s *Store) Search(values []string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Filter(s.table, values)
}

// Filter applies canonical positional substring filters to t. See
// Store.Search.
func Filter(t *Table, values []string) (*Table, error) {
	if len(values) > len(canonicalColumns) {
		return nil, &ShapeError{Want: len(canonicalColumns), Got: len(values)}
	}

	byColumn := make([]string, len(t.Columns))
	for i, v := range values {
		if v == "" {
			continue
		}
		idx, ok := t.ColumnIndex(canonicalColumns[i])
		if !ok {
			return nil, &UnknownFieldError{Field: canonicalColumns[i]}
		}
		byColumn[idx] = v
	}
	return filterColumns(t, byColumn), nil
}

// filterColumns keeps the rows matching every non-empty entry of byColumn,
// which is indexed by table column.
func filterColumns(t *Table, byColumn []string) *Table {
	// cases.Caser is stateful and must not be shared between goroutines.
	fold := cases.Fold()

	type constraint struct {
		col    int
		needle string
	}
	var constraints []constraint
	for i, v := range byColumn {
		if v == "" {
			continue
		}
		constraints = append(constraints, constraint{col: i, needle: fold.String(v)})
	}

	out := NewTable(t.Columns)
	for _, row := range t.Rows {
		match := true
		for _, c := range constraints {
			if !strings.Contains(fold.String(row[c.col]), c.needle) {
				match = false
				break
			}
		}
		if match {
			out.Rows = append(out.Rows, row.Clone())
		}
	}
	return out
}

// SearchFields is the keyed form of Search: filters maps column name to
// substring. A non-empty filter on an unknown column fails with
// *UnknownFieldError.
func (s *Store) SearchFields(filters map[string]string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([]string, len(s.table.Columns))
	for name, v := range filters {
		if v == "" {
			continue
		}
		idx, ok := s.table.ColumnIndex(name)
		if !ok {
			return nil, &UnknownFieldError{Field: name}
		}
		values[idx] = v
	}
	return filterColumns(s.table, values), nil
}

// SortBy reorders the in-memory table by the text of one canonical column.
// The sort is stable and is not written to the file.
func (s *Store) SortBy(field string, ascending bool) error {
	if !slices.Contains(canonicalColumns, field) {
		return &UnknownFieldError{Field: field}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.table.ColumnIndex(field)
	if !ok {
		return &UnknownFieldError{Field: field}
	}
	SortRows(s.table.Rows, idx, ascending)
	s.order = &SortOrder{Field: field, Ascending: ascending}
	return nil
}

// Order returns the sort last applied with SortBy, if any.
func (s *Store) Order() (SortOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.order == nil {
		return SortOrder{}, false
	}
	return *s.order, true
}

// SortRows stably sorts rows by column col using byte-wise text comparison.
func SortRows(rows []Record, col int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b Record) int {
		if ascending {
			return strings.Compare(a[col], b[col])
		}
		return strings.Compare(b[col], a[col])
	})
}
