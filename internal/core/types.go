package core

import "slices"

// Canonical column names of the quiz-answer dataset, in file order.
const (
	ColStudentID      = "Student ID"
	ColStudentCountry = "Student Country"
	ColQuestionID     = "Question ID"
	ColAnswerType     = "Type of Answer"
	ColQuestionLevel  = "Question Level"
	ColTopic          = "Topic"
	ColSubtopic       = "Subtopic"
	ColKeywords       = "Keywords"
)

// Delimiter separates fields in the persisted dataset file.
const Delimiter = ';'

var canonicalColumns = []string{
	ColStudentID,
	ColStudentCountry,
	ColQuestionID,
	ColAnswerType,
	ColQuestionLevel,
	ColTopic,
	ColSubtopic,
	ColKeywords,
}

// CanonicalColumns returns the 8 dataset column names in file order.
func CanonicalColumns() []string {
	return slices.Clone(canonicalColumns)
}

// FieldCount is the number of fields in a canonical record.
func FieldCount() int {
	return len(canonicalColumns)
}

// Record is one row of the dataset. All fields are kept as raw text.
type Record []string

// Clone returns a copy that shares no memory with r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return slices.Clone(r)
}

// Equal reports whether r and o hold the same fields in the same order.
func (r Record) Equal(o Record) bool {
	return slices.Equal(r, o)
}

// Table is an ordered collection of records sharing one header.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table with the given header.
// A nil header yields the canonical columns.
func NewTable(columns []string) *Table {
	if columns == nil {
		columns = canonicalColumns
	}
	return &Table{
		Columns: slices.Clone(columns),
		Rows:    []Record{},
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column by exact name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i := slices.Index(t.Columns, name)
	return i, i >= 0
}

// Column returns every value of a column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}
