package web

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/quizdata/internal/charts"
	"github.com/JonMunkholm/quizdata/internal/core"
	"github.com/JonMunkholm/quizdata/internal/logging"
	"github.com/JonMunkholm/quizdata/internal/web/templates"
)

// Area chart drawing box in SVG units.
const (
	areaWidth  = 480.0
	areaHeight = 220.0
)

// handlePage renders the table page. The requested sort is applied to the
// store so that row positions on the page match store positions.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := parseView(q)
	page := templates.TablePage{
		Path:     s.store.Path(),
		Flash:    q.Get("flash"),
		FlashLvl: q.Get("flashKind"),
	}

	order, ok := parseSort(q)
	if !ok {
		order, ok = s.store.Order()
		if !ok {
			order = defaultSort
		}
	}
	if err := s.store.SortBy(order.Field, order.Ascending); err != nil {
		logging.FromContext(r.Context()).Warn("unknown sort field, using default", "field", order.Field)
		page.Flash, page.FlashLvl = core.FormatUserError(err), templates.LevelWarn
		order = defaultSort
		_ = s.store.SortBy(order.Field, order.Ascending)
	}
	view.Sort, view.Ascending = order.Field, order.Ascending

	table := s.store.Snapshot()
	page.Columns = table.Columns
	page.Total = table.Len()

	shown := table
	if view.Searching() {
		// Inputs follow the displayed columns, which need not be canonical.
		filters := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(view.Search) {
				filters[col] = view.Search[i]
			}
		}
		var err error
		shown, err = s.store.SearchFields(filters)
		if err != nil {
			s.respondError(w, r, err, 0)
			return
		}
		page.Form = view.Search
		if shown.Len() == 0 && page.Flash == "" {
			page.Flash, page.FlashLvl = "No matching records found.", templates.LevelInfo
		}
	}

	page.Rows = make([]templates.Row, shown.Len())
	for i, rec := range shown.Rows {
		page.Rows[i] = templates.Row{Position: i, Values: rec}
	}

	if view.Selected >= 0 && !view.Searching() {
		if view.Selected < table.Len() {
			page.Form = table.Rows[view.Selected]
		} else {
			view.Selected = -1
		}
	}
	page.View = view

	if view.Chart != "" {
		page.Chart = chartComponent(view.Chart, table)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(page).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleChart renders one chart over the whole table. HTMX requests get a
// fragment, browsers a standalone page.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := charts.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	c := chartComponent(kind, s.store.Snapshot())
	if !isHTMX(r) {
		c = templates.Layout(kind.Title(), s.store.Path(), c)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render chart", "kind", kind, "error", err)
	}
}

// chartComponent computes the aggregate for kind and picks the component
// that draws it, or a notice when it cannot be drawn.
func chartComponent(kind charts.Kind, t *core.Table) templ.Component {
	switch kind {
	case charts.KindStackedBar:
		p, ok := core.CountryAnswerCounts(t)
		if !ok {
			return templates.NoChart(kind)
		}
		if len(p.Rows) == 0 {
			return templates.EmptyChart(kind)
		}
		bars, legend := charts.StackedBars(p)
		return templates.StackedBarChart(bars, legend)
	case charts.KindPie:
		c, ok := core.LevelCounts(t)
		if !ok {
			return templates.NoChart(kind)
		}
		if len(c) == 0 {
			return templates.EmptyChart(kind)
		}
		return templates.PieChart(charts.PieSlices(c))
	case charts.KindArea:
		c, ok := core.TopicCounts(t)
		if !ok {
			return templates.NoChart(kind)
		}
		if len(c) == 0 {
			return templates.EmptyChart(kind)
		}
		return templates.AreaChart(charts.Area(c, areaWidth, areaHeight))
	}
	return templates.NoChart(kind)
}

// handleListRecords returns the table as JSON, sorted first if asked.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if order, ok := parseSort(r.URL.Query()); ok {
		if err := s.store.SortBy(order.Field, order.Ascending); err != nil {
			s.respondError(w, r, err, 0)
			return
		}
	}

	var order *core.SortOrder
	if o, ok := s.store.Order(); ok {
		order = &o
	}
	writeJSON(w, http.StatusOK, newTableResponse(s.store.Snapshot(), order))
}

// handleSearch filters the table by positional or named substrings.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	var (
		result *core.Table
		err    error
	)
	if req.Fields != nil {
		result, err = s.store.SearchFields(req.Fields)
	} else {
		result, err = s.store.Search(req.Values)
	}
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, newTableResponse(result, nil))
}

// handleAggregates returns every chart view as JSON. Views whose columns
// are missing are null.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Aggregate(s.store.Snapshot()))
}

// handleExportCSV downloads the table in the on-disk format and display order.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := core.EncodeTable(s.store.Snapshot())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("dataset_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = w.Write(data)
}

// handleExportWorkbook downloads an Excel workbook with the data and one
// sheet per chart. It is built in memory so a failure can still be reported.
func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	if err := s.exports.Acquire(r.Context()); err != nil {
		w.Header().Set("Retry-After", "5")
		s.respondError(w, r, err, 0)
		return
	}
	defer s.exports.Release()

	var buf bytes.Buffer
	if err := charts.WriteWorkbook(&buf, s.store.Snapshot()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("charts_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, _ = buf.WriteTo(w)
}

// handleHistory returns the most recent mutations, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	entries := []core.HistoryEntry{}
	if s.history != nil {
		entries = s.history.Recent(limit)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleHealth reports liveness and the loaded row count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"rows":    s.store.Len(),
		"path":    s.store.Path(),
		"exports": s.exports.Status(),
	})
}
