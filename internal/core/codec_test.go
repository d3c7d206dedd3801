package core

import (
	"bytes"
	"strings"
	"testing"
)

const sampleDataset = "Student ID;Student Country;Question ID;Type of Answer;Question Level;Topic;Subtopic;Keywords\n" +
	"1;VN;Q1;Correct;Basic;Algebra;Linear equations;x,y\n" +
	"2;US;Q2;Incorrect;Advanced;Geometry;Triangles;angle\n" +
	"3;VN;Q3;Correct;Basic;Algebra;Quadratics;\"semi;colon\"\n"

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	if got := len(table.Columns); got != 8 {
		t.Fatalf("columns = %d, want 8", got)
	}
	if table.Len() != 3 {
		t.Fatalf("rows = %d, want 3", table.Len())
	}
	if got := table.Rows[2][7]; got != "semi;colon" {
		t.Errorf("quoted field = %q, want %q", got, "semi;colon")
	}
	if got := table.Rows[0][7]; got != "x,y" {
		t.Errorf("comma field = %q, want %q", got, "x,y")
	}
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty file",
		},
		{
			name:    "ragged row",
			input:   "a;b;c\n1;2\n",
			wantErr: "invalid csv",
		},
		{
			name:    "duplicate column",
			input:   "a;b;a\n1;2;3\n",
			wantErr: "duplicate column",
		},
		{
			name:    "invalid utf-8",
			input:   "a;b\n1;\xff\n",
			wantErr: "encoding error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadTableSkipsBOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + sampleDataset
	table, err := ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if table.Columns[0] != ColStudentID {
		t.Errorf("first column = %q, want %q", table.Columns[0], ColStudentID)
	}
}

func TestWriteTableRoundTrip(t *testing.T) {
	table, err := ReadTable(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}

	got, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	if !bytes.Equal(got, []byte(sampleDataset)) {
		t.Errorf("round trip mismatch\ngot:  %q\nwant: %q", got, sampleDataset)
	}
}

func TestWriteTableQuotesSpecialFields(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	table.Rows = append(table.Rows, Record{"has;delim", "has \"quote\""})

	got, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}

	want := "a;b\n\"has;delim\";\"has \"\"quote\"\"\"\n"
	if string(got) != want {
		t.Errorf("EncodeTable() = %q, want %q", got, want)
	}

	back, err := ReadTable(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if !back.Rows[0].Equal(table.Rows[0]) {
		t.Errorf("read back %q, want %q", back.Rows[0], table.Rows[0])
	}
}

func TestEncodeEmptyTable(t *testing.T) {
	got, err := EncodeTable(NewTable(nil))
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	want := strings.Join(CanonicalColumns(), ";") + "\n"
	if string(got) != want {
		t.Errorf("EncodeTable() = %q, want %q", got, want)
	}
}

func TestReadTableBareQuote(t *testing.T) {
	input := "Student ID;Keywords\n1;5\" ruler\n2;say \"hi\"\n"

	table, err := ReadTable(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	want := []Record{{"1", `5" ruler`}, {"2", `say "hi"`}}
	for i, row := range want {
		if !table.Rows[i].Equal(row) {
			t.Errorf("row %d = %q, want %q", i, table.Rows[i], row)
		}
	}

	got, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	back, err := ReadTable(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("ReadTable() of written file error = %v", err)
	}
	for i, row := range want {
		if !back.Rows[i].Equal(row) {
			t.Errorf("read back row %d = %q, want %q", i, back.Rows[i], row)
		}
	}
}

func TestWriteTableKeepsUnquotedFieldsVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"leading space", "a;b;c\n1; VN;x\n"},
		{"trailing space", "a;b;c\n1;VN ;x\n"},
		{"empty fields", "a;b;c\n;;\n1;;x\n"},
		{"backslash dot", "a;b\n\\.;x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadTable(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadTable() error = %v", err)
			}
			got, err := EncodeTable(table)
			if err != nil {
				t.Fatalf("EncodeTable() error = %v", err)
			}
			if string(got) != tt.input {
				t.Errorf("EncodeTable() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestWriteTableSingleEmptyField(t *testing.T) {
	table := NewTable([]string{"a"})
	table.Rows = append(table.Rows, Record{""}, Record{"x"})

	got, err := EncodeTable(table)
	if err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	back, err := ReadTable(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if back.Len() != 2 {
		t.Errorf("rows = %d, want 2 (file %q)", back.Len(), got)
	}
}
