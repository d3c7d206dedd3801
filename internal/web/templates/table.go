package templates

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/quizdata/internal/charts"
)

// Row is one displayed record and its position in the store's display order.
type Row struct {
	Position int
	Values   []string
}

// View is the state carried in page URLs.
type View struct {
	Sort      string
	Ascending bool
	Search    []string // one filter per column; nil when not searching
	Selected  int      // -1 when no row is selected
	Chart     charts.Kind
}

// Searching reports whether any search filter is set.
func (v View) Searching() bool {
	for _, s := range v.Search {
		if s != "" {
			return true
		}
	}
	return false
}

// Query encodes the view as URL parameters.
func (v View) Query() url.Values {
	q := url.Values{}
	if v.Sort != "" {
		q.Set("sort", v.Sort)
		if v.Ascending {
			q.Set("dir", "asc")
		} else {
			q.Set("dir", "desc")
		}
	}
	if v.Searching() {
		q.Set("search", "1")
		for i, s := range v.Search {
			q.Set(fieldName(i), s)
		}
	}
	if v.Selected >= 0 {
		q.Set("select", strconv.Itoa(v.Selected))
	}
	if v.Chart != "" {
		q.Set("chart", string(v.Chart))
	}
	return q
}

// URL returns the page URL for v.
func (v View) URL() string {
	q := v.Query().Encode()
	if q == "" {
		return "/"
	}
	return "/?" + q
}

// TablePage is everything the main page shows.
type TablePage struct {
	Path     string
	Total    int
	Columns  []string
	Rows     []Row
	Form     []string // input values, one per column
	View     View
	Flash    string
	FlashLvl string
	Chart    templ.Component
}

// fieldName is the form name of column i, shared by the record and search inputs.
func fieldName(i int) string {
	return "f" + strconv.Itoa(i)
}

// Page renders the full table page.
func Page(p TablePage) templ.Component {
	subtitle := fmt.Sprintf("%s · %d records", p.Path, p.Total)
	return Layout("Data Management and Visualization", subtitle, pageBody(p))
}

func pageBody(p TablePage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<main><div>`)
		h.render(ctx, Notice(p.FlashLvl, p.Flash))
		h.render(ctx, recordForm(p))
		h.render(ctx, dataTable(p))
		h.raw(`</div><section><h2>Charts</h2>`)
		h.render(ctx, ChartMenu(p.View.Chart, func(k charts.Kind) string {
			v := p.View
			v.Chart = k
			return v.URL()
		}))
		h.render(ctx, p.Chart)
		h.raw(`<div class="actions"><a class="button" href="/api/charts.xlsx">Download workbook</a>`)
		h.raw(`<a class="button" href="/api/export.csv">Download CSV</a></div>`)
		h.raw(`</section></main>`)
	})
}

func hiddenView(h *html, v View) {
	if v.Sort == "" {
		return
	}
	h.raw(`<input type="hidden" name="sort" value="`)
	h.text(v.Sort)
	h.raw(`"><input type="hidden" name="dir" value="`)
	if v.Ascending {
		h.raw(`asc`)
	} else {
		h.raw(`desc`)
	}
	h.raw(`">`)
}

func recordForm(p TablePage) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section><h2>Record</h2><form method="post" action="/api/records">`)
		hiddenView(h, p.View)
		h.raw(`<div class="fields">`)
		for i, col := range p.Columns {
			value := ""
			if i < len(p.Form) {
				value = p.Form[i]
			}
			h.raw(`<label>`)
			h.text(col)
			h.printf(`<input type="text" name="%s" value="`, fieldName(i))
			h.text(value)
			h.raw(`"></label>`)
		}
		h.raw(`</div><div class="actions">`)
		h.raw(`<button type="submit">Add</button>`)
		if p.View.Selected >= 0 && !p.View.Searching() {
			h.printf(`<button type="submit" formaction="/api/records/%d">Update row %d</button>`,
				p.View.Selected, p.View.Selected+1)
		}
		h.raw(`<button type="submit" formmethod="get" formaction="/" name="search" value="1">Search</button>`)
		h.raw(`<a class="button" href="/">Clear</a>`)
		h.raw(`</div></form>`)
		h.raw(`<form method="post" action="/api/reload" class="actions">`)
		hiddenView(h, p.View)
		h.raw(`<button type="submit">Refresh from file</button></form></section>`)
	})
}

func dataTable(p TablePage) templ.Component {
	return component(func(_ context.Context, h *html) {
		editable := !p.View.Searching()

		h.raw(`<section><form method="post" action="/api/records/delete">`)
		hiddenView(h, p.View)
		h.raw(`<div class="scroll"><table><thead><tr>`)
		if editable {
			h.raw(`<th></th>`)
		}
		for _, col := range p.Columns {
			v := p.View
			v.Ascending = !(v.Sort == col && v.Ascending)
			v.Sort = col
			v.Selected = -1
			h.raw(`<th><a href="`)
			h.text(v.URL())
			h.raw(`">`)
			h.text(col)
			if p.View.Sort == col {
				if p.View.Ascending {
					h.raw(` ▲`)
				} else {
					h.raw(` ▼`)
				}
			}
			h.raw(`</a></th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range p.Rows {
			if row.Position == p.View.Selected && editable {
				h.raw(`<tr class="selected">`)
			} else {
				h.raw(`<tr>`)
			}
			if editable {
				v := p.View
				v.Selected = row.Position
				h.printf(`<td><input type="checkbox" name="pos" value="%d" aria-label="select row %d"> `, row.Position, row.Position+1)
				h.raw(`<a href="`)
				h.text(v.URL())
				h.raw(`">edit</a></td>`)
			}
			for _, val := range row.Values {
				h.raw(`<td>`)
				h.text(val)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
		if editable {
			h.raw(`<div class="actions"><button type="submit">Delete selected</button></div>`)
		}
		h.raw(`</form></section>`)
	})
}
