package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"brandmize/internal/middleware/trace"
	"brandmize/internal/platform/rest"
)

// errorBody is the error envelope every non-2xx JSON response carries.
// The request id lets a user quote a failure back to the logs.
type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Code:      code,
		Message:   message,
		RequestID: trace.GetRequestID(r.Context()),
	})
}

// upstreamError maps a platform backend failure onto the response. Any
// upstream rejection surfaces as 502 so the SPA can tell "the platform is
// broken" apart from "my request was bad"; timeouts get their own status.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Platform backend error",
		"request_id", trace.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err)

	if errors.Is(err, context.DeadlineExceeded) {
		s.writeError(w, r, http.StatusGatewayTimeout, "upstream_timeout", "platform API did not respond in time")
		return
	}
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		s.writeError(w, r, http.StatusBadGateway, "upstream_error", apiErr.Error())
		return
	}
	s.writeError(w, r, http.StatusBadGateway, "upstream_error", "platform API request failed")
}
