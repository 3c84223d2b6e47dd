package memory

import (
	"context"
	"testing"
	"time"

	"brandmize/internal/core"
)

func TestCreateAndListLeads(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateLead(ctx, core.Lead{Name: "Ada Lovelace", Phone: "+14155550100"})
	if err != nil || id == "" {
		t.Fatalf("CreateLead: id=%q err=%v", id, err)
	}

	leads, err := s.ListLeads(ctx)
	if err != nil || len(leads) != 1 {
		t.Fatalf("ListLeads: %v err=%v", leads, err)
	}
	if leads[0].ID != id || leads[0].Status != core.LeadStatusNew {
		t.Errorf("unexpected lead: %+v", leads[0])
	}
	if leads[0].AddedAt.IsZero() {
		t.Error("AddedAt not set")
	}

	if _, err := s.CreateLead(ctx, core.Lead{Name: "No Phone"}); err == nil {
		t.Error("expected validation error for missing phone")
	}
}

func TestPurchaseNumberRejectsDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()

	n, err := s.PurchaseNumber(ctx, "+15550100200")
	if err != nil || n.Number != "+15550100200" {
		t.Fatalf("PurchaseNumber: %+v err=%v", n, err)
	}
	if _, err := s.PurchaseNumber(ctx, "+15550100200"); err == nil {
		t.Error("expected duplicate purchase to fail")
	}
	if _, err := s.PurchaseNumber(ctx, "  "); err == nil {
		t.Error("expected empty number to fail")
	}
}

func TestStartCallRecordsHistory(t *testing.T) {
	s := NewSeeded(time.Now().UTC())
	ctx := context.Background()

	rec, err := s.StartCall(ctx, "lead-7", "")
	if err != nil {
		t.Fatalf("StartCall: %v", err)
	}
	if rec.Number == "" {
		t.Error("expected default outbound number when none given")
	}
	if rec.Status != "queued" || rec.LeadID != "lead-7" {
		t.Errorf("unexpected record: %+v", rec)
	}

	calls, err := s.ListCalls(ctx)
	if err != nil || len(calls) != 1 {
		t.Fatalf("ListCalls: %v err=%v", calls, err)
	}
}

func TestAssistantUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := s.GetAssistant(ctx)
	if err != nil || p.Name == "" {
		t.Fatalf("GetAssistant: %+v err=%v", p, err)
	}

	p.Greeting = "Good morning from the demo line."
	if err := s.UpdateAssistant(ctx, p); err != nil {
		t.Fatalf("UpdateAssistant: %v", err)
	}
	got, _ := s.GetAssistant(ctx)
	if got.Greeting != p.Greeting {
		t.Errorf("greeting = %q, want %q", got.Greeting, p.Greeting)
	}

	p.MaxDurationSec = 1
	if err := s.UpdateAssistant(ctx, p); err == nil {
		t.Error("expected validation error for out-of-range duration")
	}
}

func TestSeededBillingData(t *testing.T) {
	s := NewSeeded(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	payments, err := s.ListPayments(ctx)
	if err != nil || len(payments) == 0 {
		t.Fatalf("ListPayments: %v err=%v", payments, err)
	}
	spends, err := s.ListSpends(ctx)
	if err != nil || len(spends) == 0 {
		t.Fatalf("ListSpends: %v err=%v", spends, err)
	}

	res := core.BuildLedger(payments, spends, core.LedgerWindow{})
	if res.FinalBalanceCents != 150_00-14_40 {
		t.Errorf("final balance = %d, want %d", res.FinalBalanceCents, 150_00-14_40)
	}
}
