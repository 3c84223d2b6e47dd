package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"brandmize/internal/core"
)

// maxImportBytes caps an uploaded CSV. Lead books beyond this belong in a
// proper bulk channel, not a browser upload.
const maxImportBytes = 5 << 20

type leadView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
	Status  string `json:"status"`
	AddedAt string `json:"added_at,omitempty"`
}

type leadListResponse struct {
	Leads       []leadView `json:"leads"`
	PagesCount  int        `json:"pages_count"`
	PageNumbers []int      `json:"page_numbers"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.fetchLeads(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	page := core.FilterAndPaginate(leads, parseQuery(r), parsePage(r), parsePageSize(r),
		func(l core.Lead) []string { return []string{l.Name, l.Email, l.Phone} })

	resp := leadListResponse{
		Leads:       make([]leadView, 0, len(page.Items)),
		PagesCount:  page.PagesCount,
		PageNumbers: page.PageNumbers,
	}
	for _, l := range page.Items {
		resp.Leads = append(resp.Leads, toLeadView(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

type importResponse struct {
	BatchID string           `json:"batch_id"`
	Staged  int              `json:"staged"`
	Skipped []importRowError `json:"skipped,omitempty"`
}

type importRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// handleImportLeads accepts a multipart CSV upload and stages it for the
// sync worker. Responds 202: staging succeeded, the platform push is
// asynchronous.
func (s *Server) handleImportLeads(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "import_disabled", "lead import is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "expected a multipart upload with a file field")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := s.importer.ImportCSV(r.Context(), file)
	if err != nil {
		slog.WarnContext(r.Context(), "Lead import rejected", "error", err)
		s.writeError(w, r, http.StatusUnprocessableEntity, "import_failed", err.Error())
		return
	}

	s.invalidateLeads()

	resp := importResponse{BatchID: result.BatchID, Staged: result.Staged}
	for _, rowErr := range result.Skipped {
		resp.Skipped = append(resp.Skipped, importRowError{Row: rowErr.Row, Reason: rowErr.Reason})
	}
	writeJSON(w, http.StatusAccepted, resp)
}

type startCallRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type callView struct {
	ID          string `json:"id"`
	LeadID      string `json:"lead_id,omitempty"`
	Number      string `json:"number"`
	StartedAt   string `json:"started_at,omitempty"`
	DurationSec int    `json:"duration_sec"`
	Status      string `json:"status"`
	Outcome     string `json:"outcome,omitempty"`
	CostCents   int64  `json:"cost_cents"`
	Recording   string `json:"recording,omitempty"`
}

// handleLeadCall starts an outbound assistant call to the named lead,
// optionally from a specific owned number.
func (s *Server) handleLeadCall(w http.ResponseWriter, r *http.Request) {
	leadID := r.PathValue("id")
	if strings.TrimSpace(leadID) == "" {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "missing lead id")
		return
	}

	var req startCallRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
	}

	call, err := s.backend.StartCall(r.Context(), leadID, strings.TrimSpace(req.PhoneNumber))
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	s.invalidateCalls()
	writeJSON(w, http.StatusCreated, toCallView(call))
}

func toLeadView(l core.Lead) leadView {
	added := ""
	if !l.AddedAt.IsZero() {
		added = l.AddedAt.Format(time.RFC3339)
	}
	return leadView{
		ID:      l.ID,
		Name:    l.Name,
		Email:   l.Email,
		Phone:   l.Phone,
		Company: l.Company,
		Status:  string(l.Status),
		AddedAt: added,
	}
}

func toCallView(c core.CallRecord) callView {
	started := ""
	if !c.StartedAt.IsZero() {
		started = c.StartedAt.Format(time.RFC3339)
	}
	return callView{
		ID:          c.ID,
		LeadID:      c.LeadID,
		Number:      c.Number,
		StartedAt:   started,
		DurationSec: c.DurationSec,
		Status:      c.Status,
		Outcome:     c.Outcome,
		CostCents:   c.CostCents,
		Recording:   c.Recording,
	}
}
