package core

import (
	"errors"
	"strings"
	"time"
)

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusCalling   LeadStatus = "calling"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusFailed    LeadStatus = "failed"
)

type (
	LeadStatus string

	// PaymentEvent is money received, as reported by the platform billing API.
	PaymentEvent struct {
		AmountCents int64
		OccurredAt  time.Time
		Description string
	}

	// SpendEvent is money spent (call minutes, number rental, transcription).
	SpendEvent struct {
		AmountCents int64
		OccurredAt  time.Time
		Description string
	}

	// LedgerEntry is one reconciled billing event with its running balance.
	// Exactly one of CreditCents/DebitCents is non-zero unless the source
	// amount itself was zero.
	LedgerEntry struct {
		OccurredAt   time.Time
		Description  string
		CreditCents  int64
		DebitCents   int64
		BalanceCents int64
	}

	Lead struct {
		ID      string
		Name    string
		Email   string
		Phone   string
		Company string
		Status  LeadStatus
		AddedAt time.Time
	}

	PhoneNumber struct {
		ID           string
		Number       string
		FriendlyName string
		Region       string
		Capabilities []string
		MonthlyCents int64
		PurchasedAt  time.Time
	}

	CallRecord struct {
		ID          string
		LeadID      string
		Number      string
		StartedAt   time.Time
		DurationSec int
		Status      string
		Outcome     string
		CostCents   int64
		Recording   string
	}

	// AssistantProfile configures the AI conversation pipeline.
	AssistantProfile struct {
		Name           string
		Greeting       string
		Voice          string
		Language       string
		Transcriber    string
		Model          string
		MaxDurationSec int
		Interruptible  bool
	}

	// CallSummary aggregates call activity for the analytics view.
	CallSummary struct {
		TotalCalls     int
		TotalMinutes   int64
		TotalCostCents int64
		ByOutcome      map[string]int
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyPhone      = errors.New("empty phone number")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmptyGreeting   = errors.New("empty greeting")
	ErrInvalidDuration = errors.New("invalid max call duration")
	ErrUnknownModel    = errors.New("unknown model")
)

func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if len(l.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	phone := strings.TrimSpace(l.Phone)
	if phone == "" {
		return ErrEmptyPhone
	}
	if !validPhone(phone) {
		return ErrInvalidPhone
	}
	if email := strings.TrimSpace(l.Email); email != "" {
		at := strings.Index(email, "@")
		if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
			return ErrInvalidEmail
		}
	}
	return nil
}

// validPhone accepts an optional leading + followed by 7-15 digits,
// tolerating spaces, dashes and parentheses.
func validPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

func (a AssistantProfile) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Greeting) == "" {
		return ErrEmptyGreeting
	}
	if len(a.Greeting) > 500 {
		return errors.New("greeting too long (max 500 characters)")
	}
	if a.MaxDurationSec < 30 || a.MaxDurationSec > 3600 {
		return ErrInvalidDuration
	}
	if strings.TrimSpace(a.Model) == "" {
		return ErrUnknownModel
	}
	return nil
}
