package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/quizdata/internal/core"
	"github.com/JonMunkholm/quizdata/internal/logging"
	"github.com/JonMunkholm/quizdata/internal/web/templates"
)

// mutationResponse is the JSON reply to a successful mutation.
type mutationResponse struct {
	Success  bool   `json:"success"`
	Affected int    `json:"affected"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
}

// respondMutation finishes a successful mutation: forms are redirected back
// to the page they came from, API clients get JSON.
func (s *Server) respondMutation(w http.ResponseWriter, r *http.Request, status, affected int, msg string) {
	if isForm(r) && !wantsJSON(r) {
		s.redirectToPage(w, r, viewFromForm(r), templates.LevelInfo, msg)
		return
	}
	writeJSON(w, status, mutationResponse{
		Success:  true,
		Affected: affected,
		Total:    s.store.Len(),
		Message:  msg,
	})
}

// handleAppend adds one record at the end of the table.
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecord(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := s.store.Append(rec); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.FromContext(r.Context()).Info("record appended", "total", s.store.Len())
	s.respondMutation(w, r, http.StatusCreated, 1, "Record added.")
}

// handleUpdate replaces the record at {pos}.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePosition(chi.URLParam(r, "pos"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	rec, err := readRecord(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := s.applyFormSort(r); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if err := s.store.UpdateAt(pos, rec); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	logging.WithFields(r.Context(), "position", pos, "fields", len(rec)).Info("record updated")
	s.respondMutation(w, r, http.StatusOK, 1, fmt.Sprintf("Row %d updated.", pos+1))
}

// handleDelete removes the selected rows. Selecting nothing is a bad request.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	positions, err := readPositions(w, r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if len(positions) == 0 {
		s.respondError(w, r, core.BadRequest("no rows selected"), 0)
		return
	}
	if err := s.applyFormSort(r); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	before := s.store.Len()
	if err := s.store.DeleteAt(positions); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	deleted := before - s.store.Len()

	logging.WithFields(r.Context(), "positions", positions).Info("records deleted", "deleted", deleted)
	s.respondMutation(w, r, http.StatusOK, deleted, fmt.Sprintf("%d record(s) deleted.", deleted))
}

// handleReload re-reads the dataset file. A missing or unreadable file
// leaves an empty table and is reported as a warning, not a failure.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if isForm(r) {
		if err := parseForm(w, r); err != nil {
			s.respondError(w, r, err, 0)
			return
		}
	}

	table, err := s.store.Reload()
	msg, level := fmt.Sprintf("Loaded %d records.", table.Len()), templates.LevelInfo
	if err != nil {
		logging.FromContext(r.Context()).Warn("reload fell back to empty table", "error", err)
		msg, level = core.FormatUserError(err), templates.LevelWarn
	}

	if isForm(r) && !wantsJSON(r) {
		// Load resets the sort; the page re-applies the one it shows.
		s.redirectToPage(w, r, viewFromForm(r), level, msg)
		return
	}

	resp := map[string]any{
		"success": true,
		"total":   table.Len(),
		"message": msg,
	}
	if err != nil {
		resp["warning"] = core.MapError(err)
		resp["missing"] = errors.Is(err, core.ErrMissingFile)
	}
	writeJSON(w, http.StatusOK, resp)
}
