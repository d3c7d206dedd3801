package web

// Shared request parsing used across handlers.

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/quizdata/internal/charts"
	"github.com/JonMunkholm/quizdata/internal/core"
	"github.com/JonMunkholm/quizdata/internal/web/templates"
)

// MaxBodySize caps JSON and form request bodies (1MB).
const MaxBodySize = 1 << 20

// defaultSort is the order shown when a page names none.
var defaultSort = core.SortOrder{Field: core.ColStudentID, Ascending: true}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseSort reads sort and dir from v. ok is false when no sort is named.
func parseSort(v url.Values) (core.SortOrder, bool) {
	field := strings.TrimSpace(v.Get("sort"))
	if field == "" {
		return core.SortOrder{}, false
	}
	return core.SortOrder{Field: field, Ascending: v.Get("dir") != "desc"}, true
}

// parseView reads the page state from URL query parameters.
func parseView(q url.Values) templates.View {
	view := templates.View{Selected: -1}
	if order, ok := parseSort(q); ok {
		view.Sort, view.Ascending = order.Field, order.Ascending
	}
	if q.Get("search") != "" {
		view.Search = fieldValues(q)
	}
	if sel := q.Get("select"); sel != "" {
		if pos, err := strconv.Atoi(sel); err == nil && pos >= 0 {
			view.Selected = pos
		}
	}
	if kind, ok := charts.ParseKind(q.Get("chart")); ok {
		view.Chart = kind
	}
	return view
}

// viewFromForm recovers the page state a form was posted from.
func viewFromForm(r *http.Request) templates.View {
	view := templates.View{Selected: -1}
	if r.PostForm == nil {
		_ = r.ParseForm()
	}
	if order, ok := parseSort(r.PostForm); ok {
		view.Sort, view.Ascending = order.Field, order.Ascending
	}
	return view
}

// fieldValues collects the positional inputs f0..f7.
func fieldValues(v url.Values) []string {
	values := make([]string, core.FieldCount())
	for i := range values {
		values[i] = strings.TrimSpace(v.Get("f" + strconv.Itoa(i)))
	}
	return values
}

// applyFormSort re-applies the order the posting page displayed so that
// positions in the form resolve to the rows the user saw.
func (s *Server) applyFormSort(r *http.Request) error {
	order, ok := parseSort(r.PostForm)
	if !ok {
		return nil
	}
	if cur, ok := s.store.Order(); ok && cur == order {
		return nil
	}
	return s.store.SortBy(order.Field, order.Ascending)
}

// parsePosition reads the {pos} URL parameter.
func parsePosition(raw string) (int, error) {
	pos, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.BadRequest("invalid position %q", raw)
	}
	return pos, nil
}

// recordRequest is the JSON body of append and update.
type recordRequest struct {
	Values []string `json:"values"`
}

// deleteRequest is the JSON body of delete.
type deleteRequest struct {
	Positions []int `json:"positions"`
}

// searchRequest is the JSON body of search. Fields takes precedence over Values.
type searchRequest struct {
	Values []string          `json:"values"`
	Fields map[string]string `json:"fields"`
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return core.BadRequest("empty body")
		}
		return core.BadRequest("invalid JSON: %v", err)
	}
	return nil
}

// parseForm reads a size-limited form body.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		return core.BadRequest("invalid form: %v", err)
	}
	return nil
}

// readRecord extracts a record from a form or JSON body.
func readRecord(w http.ResponseWriter, r *http.Request) (core.Record, error) {
	if isForm(r) {
		if err := parseForm(w, r); err != nil {
			return nil, err
		}
		return core.Record(fieldValues(r.PostForm)), nil
	}
	var req recordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	return core.Record(req.Values), nil
}

// readPositions extracts the rows to delete from a form or JSON body.
func readPositions(w http.ResponseWriter, r *http.Request) ([]int, error) {
	if isForm(r) {
		if err := parseForm(w, r); err != nil {
			return nil, err
		}
		raw := r.PostForm["pos"]
		positions := make([]int, 0, len(raw))
		for _, p := range raw {
			pos, err := parsePosition(p)
			if err != nil {
				return nil, err
			}
			positions = append(positions, pos)
		}
		return positions, nil
	}
	var req deleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	return req.Positions, nil
}

// redirectToPage sends a form post back to the table page with a flash message.
func (s *Server) redirectToPage(w http.ResponseWriter, r *http.Request, view templates.View, level, msg string) {
	q := view.Query()
	if msg != "" {
		q.Set("flash", msg)
		q.Set("flashKind", level)
	}
	target := "/"
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// tableResponse is the JSON form of a table.
type tableResponse struct {
	Columns []string        `json:"columns"`
	Rows    []core.Record   `json:"rows"`
	Total   int             `json:"total"`
	Order   *core.SortOrder `json:"order,omitempty"`
}

func newTableResponse(t *core.Table, order *core.SortOrder) tableResponse {
	return tableResponse{
		Columns: t.Columns,
		Rows:    t.Rows,
		Total:   t.Len(),
		Order:   order,
	}
}
