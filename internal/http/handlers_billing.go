package http

import (
	"log/slog"
	"net/http"
	"time"

	"brandmize/internal/core"
)

type ledgerEntryView struct {
	OccurredAt   string `json:"occurred_at"`
	Description  string `json:"description"`
	CreditCents  int64  `json:"credit_cents"`
	DebitCents   int64  `json:"debit_cents"`
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

type ledgerResponse struct {
	Entries           []ledgerEntryView `json:"entries"`
	PagesCount        int               `json:"pages_count"`
	PageNumbers       []int             `json:"page_numbers"`
	TotalCreditCents  int64             `json:"total_credit_cents"`
	TotalDebitCents   int64             `json:"total_debit_cents"`
	FinalBalanceCents int64             `json:"final_balance_cents"`
	FinalBalance      string            `json:"final_balance"`
}

// handleLedger serves the reconciled billing ledger for an optional date
// window, newest entry first, paginated and filterable by description.
func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ledger, err := s.fetchLedger(r.Context(), window)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	page := core.FilterAndPaginate(ledger.Entries, parseQuery(r), parsePage(r), parsePageSize(r),
		func(e core.LedgerEntry) []string { return []string{e.Description} })

	resp := ledgerResponse{
		Entries:           make([]ledgerEntryView, 0, len(page.Items)),
		PagesCount:        page.PagesCount,
		PageNumbers:       page.PageNumbers,
		TotalCreditCents:  ledger.TotalCreditCents,
		TotalDebitCents:   ledger.TotalDebitCents,
		FinalBalanceCents: ledger.FinalBalanceCents,
		FinalBalance:      core.FormatCents(ledger.FinalBalanceCents),
	}
	for _, e := range page.Items {
		resp.Entries = append(resp.Entries, ledgerEntryView{
			OccurredAt:   formatLedgerTime(e.OccurredAt),
			Description:  e.Description,
			CreditCents:  e.CreditCents,
			DebitCents:   e.DebitCents,
			BalanceCents: e.BalanceCents,
			Balance:      core.FormatCents(e.BalanceCents),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleLedgerCSV exports the full windowed ledger, not just one page.
func (s *Server) handleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ledger, err := s.fetchLedger(r.Context(), window)
	if err != nil {
		s.upstreamError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	if err := core.WriteLedgerCSV(w, ledger.Entries); err != nil {
		slog.ErrorContext(r.Context(), "Ledger CSV write failed", "error", err)
	}
}

func formatLedgerTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
