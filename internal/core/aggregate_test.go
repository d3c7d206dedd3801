package core

import (
	"reflect"
	"strings"
	"testing"
)

const aggregateDataset = "Student ID;Student Country;Question ID;Type of Answer;Question Level;Topic;Subtopic;Keywords\n" +
	"1;VN;Q1;Correct;Basic;Algebra;s;k\n" +
	"2;US;Q2;Incorrect;Advanced;Geometry;s;k\n" +
	"3;VN;Q3;Incorrect;Basic;Algebra;s;k\n" +
	"4;VN;Q4;Correct;Advanced;Statistics;s;k\n" +
	"5;US;Q5;Correct;Basic;Geometry;s;k\n"

func mustReadTable(t *testing.T, data string) *Table {
	t.Helper()
	table, err := ReadTable(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	return table
}

func TestLevelCounts(t *testing.T) {
	table := mustReadTable(t, aggregateDataset)

	got, ok := LevelCounts(table)
	if !ok {
		t.Fatal("LevelCounts() ok = false")
	}
	want := Counts{{Key: "Basic", Count: 3}, {Key: "Advanced", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LevelCounts() = %v, want %v", got, want)
	}
	if got.Total() != table.Len() {
		t.Errorf("Total() = %d, want %d", got.Total(), table.Len())
	}
}

func TestTopicCountsTiesKeepFirstSeen(t *testing.T) {
	table := mustReadTable(t, aggregateDataset)

	got, ok := TopicCounts(table)
	if !ok {
		t.Fatal("TopicCounts() ok = false")
	}
	want := Counts{{Key: "Algebra", Count: 2}, {Key: "Geometry", Count: 2}, {Key: "Statistics", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopicCounts() = %v, want %v", got, want)
	}
}

func TestCountryAnswerCounts(t *testing.T) {
	table := mustReadTable(t, aggregateDataset)

	got, ok := CountryAnswerCounts(table)
	if !ok {
		t.Fatal("CountryAnswerCounts() ok = false")
	}
	if want := []string{"US", "VN"}; !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("Rows = %v, want %v", got.Rows, want)
	}
	if want := []string{"Correct", "Incorrect"}; !reflect.DeepEqual(got.Columns, want) {
		t.Errorf("Columns = %v, want %v", got.Columns, want)
	}
	if want := [][]int{{1, 1}, {2, 1}}; !reflect.DeepEqual(got.Cells, want) {
		t.Errorf("Cells = %v, want %v", got.Cells, want)
	}
	if got.RowTotal(1) != 3 || got.Max() != 3 {
		t.Errorf("RowTotal(1) = %d, Max() = %d, want 3, 3", got.RowTotal(1), got.Max())
	}
}

func TestAggregatesMissingColumn(t *testing.T) {
	table := mustReadTable(t, "Student ID;Student Country;Topic\n1;VN;Algebra\n")

	if _, ok := CountryAnswerCounts(table); ok {
		t.Error("CountryAnswerCounts() ok = true without answer column")
	}
	if _, ok := LevelCounts(table); ok {
		t.Error("LevelCounts() ok = true without level column")
	}
	if got, ok := TopicCounts(table); !ok || len(got) != 1 {
		t.Errorf("TopicCounts() = %v, %v", got, ok)
	}

	agg := Aggregate(table)
	if agg.CountryAnswer != nil || agg.Level != nil || agg.Topic == nil {
		t.Errorf("Aggregate() = %+v", agg)
	}
}

func TestAggregatesEmptyTable(t *testing.T) {
	table := NewTable(nil)

	got, ok := CountryAnswerCounts(table)
	if !ok {
		t.Fatal("CountryAnswerCounts() ok = false on empty canonical table")
	}
	if len(got.Rows) != 0 || got.Max() != 0 {
		t.Errorf("CountryAnswerCounts() = %+v, want empty", got)
	}
	if counts, ok := LevelCounts(table); !ok || len(counts) != 0 {
		t.Errorf("LevelCounts() = %v, %v", counts, ok)
	}
}
