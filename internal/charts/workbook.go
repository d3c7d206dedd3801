package charts

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/quizdata/internal/core"
)

// Sheet names of the exported workbook.
const (
	SheetData          = "Data"
	SheetCountryAnswer = "CountryAnswer"
	SheetLevel         = "QuestionLevel"
	SheetTopic         = "Topic"
)

// WriteWorkbook writes t and its three chart views to w as an .xlsx file.
func WriteWorkbook(w io.Writer, t *core.Table) error {
	f, err := BuildWorkbook(t)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// BuildWorkbook creates a workbook with the raw table on the first sheet and
// one sheet per aggregate, each with a native chart. An aggregate whose
// columns are missing gets a sheet with a notice instead of a chart.
func BuildWorkbook(t *core.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename data sheet: %w", err)
	}

	steps := []func(*excelize.File, *core.Table) error{
		writeData,
		writeCountryAnswer,
		writeLevel,
		writeTopic,
	}
	for _, step := range steps {
		if err := step(f, t); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeData(f *excelize.File, t *core.Table) error {
	header := t.Columns
	if err := setRow(f, SheetData, 1, &header); err != nil {
		return err
	}
	for i, rec := range t.Rows {
		row := []string(rec)
		if err := setRow(f, SheetData, i+2, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCountryAnswer(f *excelize.File, t *core.Table) error {
	if _, err := f.NewSheet(SheetCountryAnswer); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetCountryAnswer, err)
	}

	p, ok := core.CountryAnswerCounts(t)
	if !ok {
		return writeNotice(f, SheetCountryAnswer, KindStackedBar)
	}

	header := append([]string{p.RowField}, p.Columns...)
	if err := setRow(f, SheetCountryAnswer, 1, &header); err != nil {
		return err
	}
	for i, r := range p.Rows {
		row := make([]any, 0, len(p.Columns)+1)
		row = append(row, r)
		for _, n := range p.Cells[i] {
			row = append(row, n)
		}
		if err := setRow(f, SheetCountryAnswer, i+2, &row); err != nil {
			return err
		}
	}
	if len(p.Rows) == 0 {
		return nil
	}

	lastRow := len(p.Rows) + 1
	categories := rangeRef(SheetCountryAnswer, 1, 2, 1, lastRow)
	series := make([]excelize.ChartSeries, len(p.Columns))
	for j, name := range p.Columns {
		col := j + 2
		series[j] = excelize.ChartSeries{
			Name:       name,
			Categories: categories,
			Values:     rangeRef(SheetCountryAnswer, col, 2, col, lastRow),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(Color(j), "#")}},
		}
	}

	return addChart(f, SheetCountryAnswer, len(p.Columns)+3, &excelize.Chart{
		Type:   excelize.ColStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: KindStackedBar.Title()}},
		Legend: excelize.ChartLegend{Position: "right"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: core.ColStudentCountry}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Count"}}},
	})
}

func writeLevel(f *excelize.File, t *core.Table) error {
	counts, ok := core.LevelCounts(t)
	return writeCounts(f, SheetLevel, KindPie, counts, ok, func(cats, vals string) *excelize.Chart {
		return &excelize.Chart{
			Type:     excelize.Pie,
			Series:   []excelize.ChartSeries{{Name: "Count", Categories: cats, Values: vals}},
			Title:    []excelize.RichTextRun{{Text: KindPie.Title()}},
			Legend:   excelize.ChartLegend{Position: "right"},
			PlotArea: excelize.ChartPlotArea{ShowPercent: true},
		}
	})
}

func writeTopic(f *excelize.File, t *core.Table) error {
	counts, ok := core.TopicCounts(t)
	return writeCounts(f, SheetTopic, KindArea, counts, ok, func(cats, vals string) *excelize.Chart {
		return &excelize.Chart{
			Type: excelize.Area,
			Series: []excelize.ChartSeries{{
				Name:       "Count",
				Categories: cats,
				Values:     vals,
				Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"87CEEB"}},
			}},
			Title:  []excelize.RichTextRun{{Text: KindArea.Title()}},
			Legend: excelize.ChartLegend{Position: "none"},
			XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: core.ColTopic}}},
			YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Count"}}},
		}
	})
}

// writeCounts lays out a single-key count as two columns and charts it.
func writeCounts(
	f *excelize.File,
	sheet string,
	kind Kind,
	counts core.Counts,
	ok bool,
	chart func(categories, values string) *excelize.Chart,
) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if !ok {
		return writeNotice(f, sheet, kind)
	}

	header := []string{kind.RequiredColumns()[0], "Count"}
	if err := setRow(f, sheet, 1, &header); err != nil {
		return err
	}
	for i, c := range counts {
		row := []any{c.Key, c.Count}
		if err := setRow(f, sheet, i+2, &row); err != nil {
			return err
		}
	}
	if len(counts) == 0 {
		return nil
	}

	last := len(counts) + 1
	return addChart(f, sheet, 4, chart(rangeRef(sheet, 1, 2, 1, last), rangeRef(sheet, 2, 2, 2, last)))
}

func writeNotice(f *excelize.File, sheet string, kind Kind) error {
	msg := fmt.Sprintf("No chart: required columns %q not found", kind.RequiredColumns())
	return setCell(f, sheet, 1, 1, msg)
}

func addChart(f *excelize.File, sheet string, col int, chart *excelize.Chart) error {
	anchor, err := excelize.CoordinatesToCellName(col, 2)
	if err != nil {
		return err
	}
	if err := f.AddChart(sheet, anchor, chart); err != nil {
		return fmt.Errorf("add chart to %s: %w", sheet, err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// setRow writes *values into row, starting at column A.
func setRow(f *excelize.File, sheet string, row int, values any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, values); err != nil {
		return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// rangeRef builds an absolute reference such as Topic!$A$2:$A$5.
func rangeRef(sheet string, col1, row1, col2, row2 int) string {
	from, _ := excelize.CoordinatesToCellName(col1, row1, true)
	to, _ := excelize.CoordinatesToCellName(col2, row2, true)
	return fmt.Sprintf("%s!%s:%s", sheet, from, to)
}
