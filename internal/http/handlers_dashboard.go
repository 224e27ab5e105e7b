package http

import (
	"net/http"

	"findash/internal/log"
	"findash/internal/services"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.Views.Summary(r.Context())
	if err != nil {
		writeError(w, r, log.OpGet, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleViolations(w http.ResponseWriter, r *http.Request) {
	violations, err := s.deps.Views.Violations(r.Context())
	if err != nil {
		writeError(w, r, log.OpGet, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string][]string{"violations": violations})
}

type settingsRequest struct {
	Edits []services.Edit `json:"edits"`
}

type settingsField struct {
	Field   services.Field `json:"field"`
	Indexed bool           `json:"indexed"`
}

// handleSettingsFields lists the editable fields of the settings form.
func (s *Server) handleSettingsFields(w http.ResponseWriter, r *http.Request) {
	fields := services.Fields()
	out := make([]settingsField, len(fields))
	for i, f := range fields {
		out[i] = settingsField{Field: f, Indexed: f.Indexed()}
	}
	writeJSON(w, r, http.StatusOK, map[string][]settingsField{"fields": out})
}

// handleApplySettings applies a batch of form edits. Either every edit is
// saved or none is.
func (s *Server) handleApplySettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	d, err := s.deps.Settings.ApplyEdits(r.Context(), req.Edits)
	if err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}
