package http

import (
	"net/http"

	"brandmize/internal/core"
)

type callListResponse struct {
	Calls       []callView `json:"calls"`
	PagesCount  int        `json:"pages_count"`
	PageNumbers []int      `json:"page_numbers"`
}

// handleListCalls serves call history, filterable by free text over the
// lead, number, status and outcome, and by a minimum cost.
func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	minCost, err := parseMinCost(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	window, err := parseWindow(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	calls, err := s.fetchCalls(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	preds := []func(core.CallRecord) bool{
		func(c core.CallRecord) bool { return window.Contains(c.StartedAt) },
	}
	if minCost >= 0 {
		preds = append(preds, func(c core.CallRecord) bool { return c.CostCents >= minCost })
	}

	page := core.FilterAndPaginate(calls, parseQuery(r), parsePage(r), parsePageSize(r),
		func(c core.CallRecord) []string { return []string{c.LeadID, c.Number, c.Status, c.Outcome} },
		preds...)

	resp := callListResponse{
		Calls:       make([]callView, 0, len(page.Items)),
		PagesCount:  page.PagesCount,
		PageNumbers: page.PageNumbers,
	}
	for _, c := range page.Items {
		resp.Calls = append(resp.Calls, toCallView(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

type callSummaryResponse struct {
	TotalCalls     int            `json:"total_calls"`
	TotalMinutes   int64          `json:"total_minutes"`
	TotalCostCents int64          `json:"total_cost_cents"`
	TotalCost      string         `json:"total_cost"`
	ByOutcome      map[string]int `json:"by_outcome"`
}

func (s *Server) handleCallSummary(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	calls, err := s.fetchCalls(r.Context())
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	windowed := calls[:0:0]
	for _, c := range calls {
		if window.Contains(c.StartedAt) {
			windowed = append(windowed, c)
		}
	}

	sum := core.SummarizeCalls(windowed)
	writeJSON(w, http.StatusOK, callSummaryResponse{
		TotalCalls:     sum.TotalCalls,
		TotalMinutes:   sum.TotalMinutes,
		TotalCostCents: sum.TotalCostCents,
		TotalCost:      core.FormatCents(sum.TotalCostCents),
		ByOutcome:      sum.ByOutcome,
	})
}
