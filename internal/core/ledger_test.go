package core

import (
	"reflect"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildLedgerRunningBalance(t *testing.T) {
	payments := []PaymentEvent{
		{AmountCents: 10000, OccurredAt: day(2), Description: "Top-up"},
	}
	spends := []SpendEvent{
		{AmountCents: 3000, OccurredAt: day(1), Description: "Call minutes"},
		{AmountCents: 2000, OccurredAt: day(3), Description: "Number rental"},
	}

	res := BuildLedger(payments, spends, LedgerWindow{})

	if res.TotalCreditCents != 10000 {
		t.Errorf("TotalCreditCents = %d, want 10000", res.TotalCreditCents)
	}
	if res.TotalDebitCents != 5000 {
		t.Errorf("TotalDebitCents = %d, want 5000", res.TotalDebitCents)
	}
	if res.FinalBalanceCents != 5000 {
		t.Errorf("FinalBalanceCents = %d, want 5000", res.FinalBalanceCents)
	}

	want := []LedgerEntry{
		{OccurredAt: day(3), Description: "Number rental", DebitCents: 2000, BalanceCents: 5000},
		{OccurredAt: day(2), Description: "Top-up", CreditCents: 10000, BalanceCents: 7000},
		{OccurredAt: day(1), Description: "Call minutes", DebitCents: 3000, BalanceCents: -3000},
	}
	if !reflect.DeepEqual(res.Entries, want) {
		t.Fatalf("Entries = %+v, want %+v", res.Entries, want)
	}
}

func TestBuildLedgerInvariants(t *testing.T) {
	payments := []PaymentEvent{
		{AmountCents: 500, OccurredAt: day(5), Description: "a"},
		{AmountCents: 1500, OccurredAt: day(9), Description: "b"},
		{AmountCents: 0, OccurredAt: day(4), Description: "zero payment"},
	}
	spends := []SpendEvent{
		{AmountCents: 700, OccurredAt: day(7), Description: "c"},
		{AmountCents: 300, OccurredAt: day(2), Description: "d"},
	}

	res := BuildLedger(payments, spends, LedgerWindow{})

	// Newest first.
	for i := 0; i+1 < len(res.Entries); i++ {
		if res.Entries[i].OccurredAt.Before(res.Entries[i+1].OccurredAt) {
			t.Errorf("entries out of order at %d: %v before %v",
				i, res.Entries[i].OccurredAt, res.Entries[i+1].OccurredAt)
		}
	}

	// At most one of credit/debit set.
	for i, e := range res.Entries {
		if e.CreditCents != 0 && e.DebitCents != 0 {
			t.Errorf("entry %d has both credit and debit set: %+v", i, e)
		}
	}

	// Adjacent balances are consistent: balance[i] = balance[i+1] + net[i].
	for i := 0; i+1 < len(res.Entries); i++ {
		got := res.Entries[i].BalanceCents
		want := res.Entries[i+1].BalanceCents + res.Entries[i].CreditCents - res.Entries[i].DebitCents
		if got != want {
			t.Errorf("balance[%d] = %d, want %d", i, got, want)
		}
	}

	if len(res.Entries) > 0 && res.Entries[0].BalanceCents != res.FinalBalanceCents {
		t.Errorf("newest balance %d != final balance %d",
			res.Entries[0].BalanceCents, res.FinalBalanceCents)
	}
	if res.FinalBalanceCents != res.TotalCreditCents-res.TotalDebitCents {
		t.Errorf("final balance %d != credit-debit %d",
			res.FinalBalanceCents, res.TotalCreditCents-res.TotalDebitCents)
	}
}

func TestBuildLedgerDateWindow(t *testing.T) {
	payments := []PaymentEvent{
		{AmountCents: 100, OccurredAt: day(1)},
		{AmountCents: 200, OccurredAt: day(5)},
		{AmountCents: 400, OccurredAt: day(9)},
	}
	spends := []SpendEvent{
		{AmountCents: 50, OccurredAt: day(3)},
		{AmountCents: 80, OccurredAt: day(7)},
	}

	from := day(3)
	to := day(7)

	tests := []struct {
		name       string
		window     LedgerWindow
		wantCredit int64
		wantDebit  int64
		wantCount  int
	}{
		{"unbounded", LedgerWindow{}, 700, 130, 5},
		{"both bounds inclusive", LedgerWindow{From: &from, To: &to}, 200, 130, 3},
		{"from only", LedgerWindow{From: &from}, 600, 130, 4},
		{"to only", LedgerWindow{To: &to}, 300, 130, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BuildLedger(payments, spends, tt.window)
			if res.TotalCreditCents != tt.wantCredit {
				t.Errorf("credit = %d, want %d", res.TotalCreditCents, tt.wantCredit)
			}
			if res.TotalDebitCents != tt.wantDebit {
				t.Errorf("debit = %d, want %d", res.TotalDebitCents, tt.wantDebit)
			}
			if len(res.Entries) != tt.wantCount {
				t.Errorf("entries = %d, want %d", len(res.Entries), tt.wantCount)
			}
		})
	}
}

func TestBuildLedgerEmptyAndMalformed(t *testing.T) {
	res := BuildLedger(nil, nil, LedgerWindow{})
	if len(res.Entries) != 0 || res.FinalBalanceCents != 0 {
		t.Fatalf("empty inputs should yield empty ledger, got %+v", res)
	}

	// Zero-valued records (the decode layer's fallback for malformed input)
	// pass through without failing the batch.
	res = BuildLedger(
		[]PaymentEvent{{}},
		[]SpendEvent{{AmountCents: 100, OccurredAt: day(1)}},
		LedgerWindow{},
	)
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.FinalBalanceCents != -100 {
		t.Errorf("final balance = %d, want -100", res.FinalBalanceCents)
	}
}

func TestBuildLedgerIsPure(t *testing.T) {
	payments := []PaymentEvent{{AmountCents: 100, OccurredAt: day(2)}}
	spends := []SpendEvent{{AmountCents: 30, OccurredAt: day(1)}}

	first := BuildLedger(payments, spends, LedgerWindow{})
	second := BuildLedger(payments, spends, LedgerWindow{})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
	if payments[0].AmountCents != 100 || spends[0].AmountCents != 30 {
		t.Errorf("inputs were modified")
	}
}
