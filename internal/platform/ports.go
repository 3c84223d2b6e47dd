package platform

import (
	"context"

	"brandmize/internal/core"
)

// Ports for outbound adapters onto the platform API.
type (
	// PaymentReader lists money received on the account.
	PaymentReader interface {
		ListPayments(ctx context.Context) ([]core.PaymentEvent, error)
	}

	// SpendReader lists money spent on calls, numbers and transcription.
	SpendReader interface {
		ListSpends(ctx context.Context) ([]core.SpendEvent, error)
	}

	// LeadDirectory reads the remote lead book.
	LeadDirectory interface {
		ListLeads(ctx context.Context) ([]core.Lead, error)
	}

	// LeadSink pushes locally staged leads to the platform.
	LeadSink interface {
		CreateLead(ctx context.Context, l core.Lead) (id string, err error)
	}

	// NumberCatalog manages the phone number inventory.
	NumberCatalog interface {
		ListNumbers(ctx context.Context) ([]core.PhoneNumber, error)
		SearchNumbers(ctx context.Context, region string) ([]core.PhoneNumber, error)
		PurchaseNumber(ctx context.Context, number string) (core.PhoneNumber, error)
	}

	// CallLog reads call history and starts outbound calls.
	CallLog interface {
		ListCalls(ctx context.Context) ([]core.CallRecord, error)
		StartCall(ctx context.Context, leadID, number string) (core.CallRecord, error)
	}

	// AssistantStore reads and updates the voice assistant configuration.
	AssistantStore interface {
		GetAssistant(ctx context.Context) (core.AssistantProfile, error)
		UpdateAssistant(ctx context.Context, p core.AssistantProfile) error
	}
)
