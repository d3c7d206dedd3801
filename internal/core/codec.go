package core

// codec.go converts between a Table and its on-disk form: semicolon
// separated UTF-8 text, header line first, one record per line.
//
// Fields containing the delimiter, a double quote or a line break are quoted
// on write. Nothing else is, so a file without such fields is written back
// byte for byte. A quote inside an unquoted field is read as plain text.

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ReadTable parses a dataset from r.
// The first line is the header; every following line must have the same
// number of fields. Blank lines are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.Comma = Delimiter
	cr.FieldsPerRecord = 0
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header line")
		}
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	table := NewTable(header)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if err := checkEncoding(row); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table.Rows = append(table.Rows, Record(row))
	}

	return table, nil
}

// WriteTable serialises t to w in the dataset file format.
func WriteTable(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writeLine(bw, row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	return bw.Flush()
}

// writeLine writes one record terminated by a newline.
func writeLine(w *bufio.Writer, fields []string) error {
	line := make([]string, len(fields))
	for i, f := range fields {
		line[i] = quoteField(f)
	}
	// A lone empty field would be read back as a blank line and skipped.
	if len(fields) == 1 && fields[0] == "" {
		line[0] = `""`
	}
	_, err := w.WriteString(strings.Join(line, string(Delimiter)) + "\n")
	return err
}

// quoteField quotes f only when it holds the delimiter, a quote or a line break.
func quoteField(f string) string {
	if !strings.ContainsAny(f, string(Delimiter)+"\"\r\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// EncodeTable returns the file content for t.
func EncodeTable(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// checkHeader rejects headers that cannot address columns unambiguously.
func checkHeader(header []string) error {
	if err := checkEncoding(header); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if seen[name] {
			return fmt.Errorf("invalid csv header: duplicate column %q", name)
		}
		seen[name] = true
	}
	return nil
}

// checkEncoding rejects fields that are not valid UTF-8.
func checkEncoding(fields []string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return errors.New("encoding error: invalid UTF-8")
		}
	}
	return nil
}
