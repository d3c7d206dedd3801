package core

import (
	"slices"
	"strings"
)

// Count is the number of rows sharing one group key.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Counts is a grouped count ordered by descending count.
type Counts []Count

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v.Count
	}
	return total
}

// PairCounts is a two-key grouped count laid out as a grid:
// Cells[i][j] counts rows with Rows[i] in the first column and Columns[j]
// in the second. Both key lists are sorted.
type PairCounts struct {
	RowField    string   `json:"rowField"`
	ColumnField string   `json:"columnField"`
	Rows        []string `json:"rows"`
	Columns     []string `json:"columns"`
	Cells       [][]int  `json:"cells"`
}

// RowTotal returns the count summed across the columns of row i.
func (p *PairCounts) RowTotal(i int) int {
	total := 0
	for _, v := range p.Cells[i] {
		total += v
	}
	return total
}

// Max returns the largest row total, used to scale stacked bars.
func (p *PairCounts) Max() int {
	m := 0
	for i := range p.Rows {
		m = max(m, p.RowTotal(i))
	}
	return m
}

// CountBy groups t by one column. ok is false if the column is absent.
// Ties keep first-seen order.
func CountBy(t *Table, field string) (Counts, bool) {
	values, ok := t.Column(field)
	if !ok {
		return nil, false
	}

	index := make(map[string]int)
	counts := Counts{}
	for _, v := range values {
		i, seen := index[v]
		if !seen {
			i = len(counts)
			index[v] = i
			counts = append(counts, Count{Key: v})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b Count) int {
		return b.Count - a.Count
	})
	return counts, true
}

// CrossCount groups t by two columns. ok is false if either is absent.
func CrossCount(t *Table, rowField, columnField string) (*PairCounts, bool) {
	rowIdx, ok := t.ColumnIndex(rowField)
	if !ok {
		return nil, false
	}
	colIdx, ok := t.ColumnIndex(columnField)
	if !ok {
		return nil, false
	}

	type pair struct{ row, col string }
	tally := make(map[pair]int)
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for _, rec := range t.Rows {
		p := pair{rec[rowIdx], rec[colIdx]}
		tally[p]++
		rowSet[p.row] = true
		colSet[p.col] = true
	}

	out := &PairCounts{
		RowField:    rowField,
		ColumnField: columnField,
		Rows:        sortedKeys(rowSet),
		Columns:     sortedKeys(colSet),
	}
	out.Cells = make([][]int, len(out.Rows))
	for i, r := range out.Rows {
		out.Cells[i] = make([]int, len(out.Columns))
		for j, c := range out.Columns {
			out.Cells[i][j] = tally[pair{r, c}]
		}
	}
	return out, true
}

// CountryAnswerCounts counts rows per (Student Country, Type of Answer).
func CountryAnswerCounts(t *Table) (*PairCounts, bool) {
	return CrossCount(t, ColStudentCountry, ColAnswerType)
}

// LevelCounts counts rows per Question Level.
func LevelCounts(t *Table) (Counts, bool) {
	return CountBy(t, ColQuestionLevel)
}

// TopicCounts counts rows per Topic.
func TopicCounts(t *Table) (Counts, bool) {
	return CountBy(t, ColTopic)
}

// Aggregates bundles the three chart views. Nil fields mean "no chart".
type Aggregates struct {
	CountryAnswer *PairCounts `json:"countryAnswer"`
	Level         Counts      `json:"level"`
	Topic         Counts      `json:"topic"`
}

// Aggregate computes every chart view of t.
func Aggregate(t *Table) Aggregates {
	var a Aggregates
	a.CountryAnswer, _ = CountryAnswerCounts(t)
	a.Level, _ = LevelCounts(t)
	a.Topic, _ = TopicCounts(t)
	return a
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
