package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"brandmize/internal/core"
)

type assistantView struct {
	Name           string `json:"name"`
	Greeting       string `json:"greeting"`
	Voice          string `json:"voice"`
	Language       string `json:"language"`
	Transcriber    string `json:"transcriber"`
	Model          string `json:"model"`
	MaxDurationSec int    `json:"max_duration_sec"`
	Interruptible  bool   `json:"interruptible"`
}

func (s *Server) handleGetAssistant(w http.ResponseWriter, r *http.Request) {
	profile, err := s.backend.GetAssistant(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assistantView(profile))
}

// handleUpdateAssistant validates and saves the full assistant profile.
// Partial updates are not supported; the settings form always submits
// every field.
func (s *Server) handleUpdateAssistant(w http.ResponseWriter, r *http.Request) {
	var view assistantView
	if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	profile := core.AssistantProfile(view)
	if err := profile.Validate(); err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, "invalid_profile", err.Error())
		return
	}

	if err := s.backend.UpdateAssistant(r.Context(), profile); err != nil {
		s.upstreamError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Assistant profile updated",
		"name", profile.Name, "model", profile.Model, "voice", profile.Voice)
	writeJSON(w, http.StatusOK, assistantView(profile))
}
