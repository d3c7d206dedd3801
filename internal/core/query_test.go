package core

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	s := newTestStore(t, sampleDataset)

	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "country US",
			values: []string{"", "US", "", "", "", "", "", ""},
			want:   []string{"2"},
		},
		{
			name:   "no match returns empty table",
			values: []string{"", "DE", "", "", "", "", "", ""},
			want:   []string{},
		},
		{
			name:   "case insensitive substring",
			values: []string{"", "", "", "", "", "alg", "", ""},
			want:   []string{"1", "3"},
		},
		{
			name:   "filters combine with and",
			values: []string{"", "vn", "", "", "", "", "quad", ""},
			want:   []string{"3"},
		},
		{
			name:   "all empty matches everything",
			values: make([]string, 8),
			want:   []string{"1", "2", "3"},
		},
		{
			name:   "short value list",
			values: []string{"2"},
			want:   []string{"2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(tt.values)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if ids := ids(got); !slices.Equal(ids, tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestSearchIsPureFilter(t *testing.T) {
	s := newTestStore(t, sampleDataset)
	values := []string{"", "n", "", "correct", "", "", "", ""}

	got, err := s.Search(values)
	if err != nil {
		t.Fatal(err)
	}

	matches := func(r Record) bool {
		for i, v := range values {
			if v != "" && !strings.Contains(strings.ToLower(r[i]), strings.ToLower(v)) {
				return false
			}
		}
		return true
	}

	for _, row := range s.Snapshot().Rows {
		returned := slices.ContainsFunc(got.Rows, row.Equal)
		if returned != matches(row) {
			t.Errorf("row %v: returned = %v, matches = %v", row, returned, matches(row))
		}
	}
	if s.Len() != 3 {
		t.Errorf("Search() mutated the table: rows = %d", s.Len())
	}
}

func TestSearchFoldsCase(t *testing.T) {
	s := newTestStore(t, sampleDataset)
	if err := s.Append(Record{"4", "DE", "Q4", "Correct", "Basic", "Straße", "", ""}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Search([]string{"", "", "", "", "", "STRASSE", "", ""})
	if err != nil {
		t.Fatal(err)
	}
	if ids := ids(got); !slices.Equal(ids, []string{"4"}) {
		t.Errorf("ids = %v, want [4]", ids)
	}
}

func TestSearchTooManyValues(t *testing.T) {
	s := newTestStore(t, sampleDataset)

	var shapeErr *ShapeError
	if _, err := s.Search(make([]string, 9)); !errors.As(err, &shapeErr) {
		t.Errorf("Search() error = %v, want *ShapeError", err)
	}
}

func TestSearchFields(t *testing.T) {
	s := newTestStore(t, sampleDataset)

	got, err := s.SearchFields(map[string]string{ColStudentCountry: "us"})
	if err != nil {
		t.Fatal(err)
	}
	if ids := ids(got); !slices.Equal(ids, []string{"2"}) {
		t.Errorf("ids = %v, want [2]", ids)
	}

	var fieldErr *UnknownFieldError
	if _, err := s.SearchFields(map[string]string{"Age": "3"}); !errors.As(err, &fieldErr) {
		t.Errorf("SearchFields() error = %v, want *UnknownFieldError", err)
	}
	if _, err := s.SearchFields(map[string]string{"Age": ""}); err != nil {
		t.Errorf("empty filter on unknown field: error = %v, want nil", err)
	}
}

func TestSortBy(t *testing.T) {
	data := "Student ID;Student Country;Question ID;Type of Answer;Question Level;Topic;Subtopic;Keywords\n" +
		"3;VN;Q1;Correct;Basic;A;s;k\n" +
		"1;US;Q2;Correct;Basic;A;s;k\n" +
		"2;VN;Q3;Correct;Basic;A;s;k\n"

	tests := []struct {
		name      string
		field     string
		ascending bool
		want      []string
	}{
		{name: "id descending", field: ColStudentID, ascending: false, want: []string{"3", "2", "1"}},
		{name: "id ascending", field: ColStudentID, ascending: true, want: []string{"1", "2", "3"}},
		{name: "stable on ties", field: ColStudentCountry, ascending: true, want: []string{"1", "3", "2"}},
		{name: "stable on ties descending", field: ColStudentCountry, ascending: false, want: []string{"3", "2", "1"}},
		{name: "all equal keeps order", field: ColTopic, ascending: true, want: []string{"3", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, data)
			if err := s.SortBy(tt.field, tt.ascending); err != nil {
				t.Fatalf("SortBy() error = %v", err)
			}
			if got := ids(s.Snapshot()); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			order, ok := s.Order()
			if !ok || order.Field != tt.field || order.Ascending != tt.ascending {
				t.Errorf("Order() = %+v, %v", order, ok)
			}
		})
	}
}

func TestSortByIsLexicographic(t *testing.T) {
	data := "Student ID;Student Country;Question ID;Type of Answer;Question Level;Topic;Subtopic;Keywords\n" +
		"10;VN;Q1;Correct;Basic;A;s;k\n" +
		"9;US;Q2;Correct;Basic;A;s;k\n"
	s := newTestStore(t, data)

	if err := s.SortBy(ColStudentID, true); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.Snapshot()); !slices.Equal(got, []string{"10", "9"}) {
		t.Errorf("ids = %v, want [10 9]", got)
	}
}

func TestSortByDoesNotPersist(t *testing.T) {
	s := newTestStore(t, sampleDataset)
	if err := s.SortBy(ColStudentID, false); err != nil {
		t.Fatal(err)
	}

	reloaded := NewStore(s.Path(), WithLogger(s.logger))
	table, err := reloaded.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(table); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("ids on disk = %v, want file order", got)
	}
}

func TestSortByUnknownField(t *testing.T) {
	s := newTestStore(t, sampleDataset)

	var fieldErr *UnknownFieldError
	if err := s.SortBy("Age", true); !errors.As(err, &fieldErr) {
		t.Fatalf("SortBy() error = %v, want *UnknownFieldError", err)
	}
	if fieldErr.Field != "Age" {
		t.Errorf("Field = %q, want Age", fieldErr.Field)
	}
}

func TestSearchReorderedHeader(t *testing.T) {
	s := newTestStore(t, "Student Country;Student ID\nVN;1\nUS;2\n")

	got, err := s.Search([]string{"1"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0][1] != "1" {
		t.Errorf("Search(Student ID=1) rows = %v, want the row with ID 1", got.Rows)
	}

	got, err = s.Search([]string{"", "us"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Len() != 1 || got.Rows[0][0] != "US" {
		t.Errorf("Search(Student Country=us) rows = %v, want the US row", got.Rows)
	}
}

func TestSearchMissingColumn(t *testing.T) {
	s := newTestStore(t, "Student Country;Student ID\nVN;1\n")

	values := make([]string, 8)
	values[5] = "alg"

	var fieldErr *UnknownFieldError
	if _, err := s.Search(values); !errors.As(err, &fieldErr) {
		t.Fatalf("Search() error = %v, want *UnknownFieldError", err)
	}
	if fieldErr.Field != ColTopic {
		t.Errorf("Field = %q, want %q", fieldErr.Field, ColTopic)
	}

	// An empty filter on a missing column is no constraint.
	got, err := s.Search(make([]string, 8))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("rows = %d, want 1", got.Len())
	}
}
