package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"brandmize/internal/core"
)

type numberView struct {
	ID           string   `json:"id,omitempty"`
	Number       string   `json:"number"`
	FriendlyName string   `json:"friendly_name,omitempty"`
	Region       string   `json:"region,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	MonthlyCents int64    `json:"monthly_cents"`
	Monthly      string   `json:"monthly"`
	PurchasedAt  string   `json:"purchased_at,omitempty"`
}

type numberListResponse struct {
	Numbers     []numberView `json:"numbers"`
	PagesCount  int          `json:"pages_count"`
	PageNumbers []int        `json:"page_numbers"`
}

func (s *Server) handleListNumbers(w http.ResponseWriter, r *http.Request) {
	numbers, err := s.fetchNumbers(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	page := core.FilterAndPaginate(numbers, parseQuery(r), parsePage(r), parsePageSize(r),
		func(n core.PhoneNumber) []string { return []string{n.Number, n.FriendlyName, n.Region} })

	resp := numberListResponse{
		Numbers:     make([]numberView, 0, len(page.Items)),
		PagesCount:  page.PagesCount,
		PageNumbers: page.PageNumbers,
	}
	for _, n := range page.Items {
		resp.Numbers = append(resp.Numbers, toNumberView(n))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSearchNumbers proxies the platform's available-number search.
// Results are never cached; inventory changes under our feet. The contains
// filter narrows candidates by digit substring locally.
func (s *Server) handleSearchNumbers(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	if region == "" {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "missing region parameter")
		return
	}

	candidates, err := s.backend.SearchNumbers(r.Context(), region)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	if contains := strings.TrimSpace(r.URL.Query().Get("contains")); contains != "" {
		filtered := candidates[:0]
		for _, n := range candidates {
			if strings.Contains(n.Number, contains) {
				filtered = append(filtered, n)
			}
		}
		candidates = filtered
	}

	views := make([]numberView, 0, len(candidates))
	for _, n := range candidates {
		views = append(views, toNumberView(n))
	}
	writeJSON(w, http.StatusOK, struct {
		Numbers []numberView `json:"numbers"`
	}{Numbers: views})
}

type purchaseRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (s *Server) handlePurchaseNumber(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	number := strings.TrimSpace(req.PhoneNumber)
	if number == "" {
		s.writeError(w, r, http.StatusUnprocessableEntity, "invalid_number", "phone_number is required")
		return
	}

	purchased, err := s.backend.PurchaseNumber(r.Context(), number)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	s.invalidateNumbers()
	writeJSON(w, http.StatusCreated, toNumberView(purchased))
}

func toNumberView(n core.PhoneNumber) numberView {
	purchased := ""
	if !n.PurchasedAt.IsZero() {
		purchased = n.PurchasedAt.Format(time.RFC3339)
	}
	return numberView{
		ID:           n.ID,
		Number:       n.Number,
		FriendlyName: n.FriendlyName,
		Region:       n.Region,
		Capabilities: n.Capabilities,
		MonthlyCents: n.MonthlyCents,
		Monthly:      core.FormatCents(n.MonthlyCents),
		PurchasedAt:  purchased,
	}
}
