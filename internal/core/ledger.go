package core

import (
	"sort"
	"time"
)

// LedgerWindow bounds a ledger to an inclusive date range. A nil side is
// unbounded, so a single bound yields a half-open window.
type LedgerWindow struct {
	From *time.Time
	To   *time.Time
}

func (w LedgerWindow) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// LedgerResult is the reconciled billing ledger for a window.
type LedgerResult struct {
	// Entries is ordered newest first, the order presented to the user.
	Entries           []LedgerEntry
	TotalCreditCents  int64
	TotalDebitCents   int64
	FinalBalanceCents int64
}

// BuildLedger merges payment and spend events into a single newest-first
// ledger with a running balance. The balance is accumulated from the oldest
// entry forward, so the newest entry carries the net of the whole window:
//
//	entry.BalanceCents = sum(credits) - sum(debits) up to and including it.
//
// Malformed inputs never fail the batch: zero amounts and zero timestamps
// pass through as-is, which is acceptable for a display-only ledger.
// The function is pure; its inputs are not modified.
func BuildLedger(payments []PaymentEvent, spends []SpendEvent, window LedgerWindow) LedgerResult {
	entries := make([]LedgerEntry, 0, len(payments)+len(spends))
	var res LedgerResult

	for _, p := range payments {
		if !window.Contains(p.OccurredAt) {
			continue
		}
		entries = append(entries, LedgerEntry{
			OccurredAt:  p.OccurredAt,
			Description: p.Description,
			CreditCents: p.AmountCents,
		})
		res.TotalCreditCents += p.AmountCents
	}
	for _, s := range spends {
		if !window.Contains(s.OccurredAt) {
			continue
		}
		entries = append(entries, LedgerEntry{
			OccurredAt:  s.OccurredAt,
			Description: s.Description,
			DebitCents:  s.AmountCents,
		})
		res.TotalDebitCents += s.AmountCents
	}

	// Newest first. Stable so same-instant events keep payments-before-spends
	// input order and repeated calls yield identical output.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})

	// Walk from the oldest (tail) to the newest (head) accumulating the
	// running balance.
	var running int64
	for i := len(entries) - 1; i >= 0; i-- {
		running += entries[i].CreditCents - entries[i].DebitCents
		entries[i].BalanceCents = running
	}

	res.Entries = entries
	res.FinalBalanceCents = res.TotalCreditCents - res.TotalDebitCents
	return res
}
