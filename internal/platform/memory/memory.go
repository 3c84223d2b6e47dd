// Package memory is an in-memory platform backend for tests and local
// development without platform credentials.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandmize/internal/core"
	platform "brandmize/internal/platform"
)

type Store struct {
	mu        sync.Mutex
	payments  []core.PaymentEvent
	spends    []core.SpendEvent
	leads     []core.Lead
	numbers   []core.PhoneNumber
	calls     []core.CallRecord
	assistant core.AssistantProfile
}

// Ensure interface conformance
var (
	_ platform.PaymentReader  = (*Store)(nil)
	_ platform.SpendReader    = (*Store)(nil)
	_ platform.LeadDirectory  = (*Store)(nil)
	_ platform.LeadSink       = (*Store)(nil)
	_ platform.NumberCatalog  = (*Store)(nil)
	_ platform.CallLog        = (*Store)(nil)
	_ platform.AssistantStore = (*Store)(nil)
)

func New() *Store {
	return &Store{
		assistant: core.AssistantProfile{
			Name:           "Assistant",
			Greeting:       "Hello, thanks for taking my call.",
			Voice:          "alloy",
			Language:       "en-US",
			Transcriber:    "deepgram",
			Model:          "gpt-4o-mini",
			MaxDurationSec: 600,
			Interruptible:  true,
		},
	}
}

// NewSeeded returns a store preloaded with a small demo dataset.
func NewSeeded(now time.Time) *Store {
	s := New()
	s.payments = []core.PaymentEvent{
		{AmountCents: 50_00, OccurredAt: now.AddDate(0, 0, -14), Description: "Initial top-up"},
		{AmountCents: 100_00, OccurredAt: now.AddDate(0, 0, -3), Description: "Card top-up"},
	}
	s.spends = []core.SpendEvent{
		{AmountCents: 12_40, OccurredAt: now.AddDate(0, 0, -7), Description: "Outbound call minutes"},
		{AmountCents: 2_00, OccurredAt: now.AddDate(0, 0, -1), Description: "Number rental"},
	}
	s.numbers = []core.PhoneNumber{
		{ID: "num-1", Number: "+15550100200", FriendlyName: "Main outbound", Region: "US", Capabilities: []string{"voice"}, MonthlyCents: 2_00, PurchasedAt: now.AddDate(0, -1, 0)},
	}
	return s
}

func (s *Store) ListPayments(_ context.Context) ([]core.PaymentEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PaymentEvent(nil), s.payments...), nil
}

func (s *Store) ListSpends(_ context.Context) ([]core.SpendEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SpendEvent(nil), s.spends...), nil
}

// AddPayment and AddSpend are test hooks.
func (s *Store) AddPayment(p core.PaymentEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
}

func (s *Store) AddSpend(sp core.SpendEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spends = append(s.spends, sp)
}

func (s *Store) ListLeads(_ context.Context) ([]core.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Lead(nil), s.leads...), nil
}

func (s *Store) CreateLead(_ context.Context, l core.Lead) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = core.LeadStatusNew
	}
	if l.AddedAt.IsZero() {
		l.AddedAt = time.Now().UTC()
	}
	s.leads = append(s.leads, l)
	return l.ID, nil
}

func (s *Store) ListNumbers(_ context.Context) ([]core.PhoneNumber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PhoneNumber(nil), s.numbers...), nil
}

func (s *Store) SearchNumbers(_ context.Context, region string) ([]core.PhoneNumber, error) {
	// Synthetic candidates; a real search hits the telephony provider.
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "US"
	}
	out := make([]core.PhoneNumber, 0, 3)
	for i := 0; i < 3; i++ {
		out = append(out, core.PhoneNumber{
			Number:       fmt.Sprintf("+1555020%04d", i+1),
			FriendlyName: fmt.Sprintf("Available %s %d", region, i+1),
			Region:       region,
			Capabilities: []string{"voice"},
			MonthlyCents: 2_00,
		})
	}
	return out, nil
}

func (s *Store) PurchaseNumber(_ context.Context, number string) (core.PhoneNumber, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return core.PhoneNumber{}, core.ErrEmptyPhone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.numbers {
		if n.Number == number {
			return core.PhoneNumber{}, fmt.Errorf("number %s already owned", number)
		}
	}
	n := core.PhoneNumber{
		ID:           uuid.NewString(),
		Number:       number,
		FriendlyName: number,
		Region:       "US",
		Capabilities: []string{"voice"},
		MonthlyCents: 2_00,
		PurchasedAt:  time.Now().UTC(),
	}
	s.numbers = append(s.numbers, n)
	return n, nil
}

func (s *Store) ListCalls(_ context.Context) ([]core.CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CallRecord(nil), s.calls...), nil
}

func (s *Store) StartCall(_ context.Context, leadID, number string) (core.CallRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number == "" && len(s.numbers) > 0 {
		number = s.numbers[0].Number
	}
	rec := core.CallRecord{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		Number:    number,
		StartedAt: time.Now().UTC(),
		Status:    "queued",
	}
	s.calls = append(s.calls, rec)
	return rec, nil
}

func (s *Store) GetAssistant(_ context.Context) (core.AssistantProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistant, nil
}

func (s *Store) UpdateAssistant(_ context.Context, p core.AssistantProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistant = p
	return nil
}
