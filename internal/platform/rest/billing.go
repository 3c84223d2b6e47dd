package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"brandmize/internal/core"
)

// paymentRow mirrors the /payments wire shape. Amount and timestamp are
// kept raw so malformed values degrade to zero instead of failing the
// whole batch.
type paymentRow struct {
	AmountPaid  json.RawMessage `json:"amount_paid"`
	CreatedAt   string          `json:"created_at"`
	Description string          `json:"description"`
}

type spendRow struct {
	SpentMoney  json.RawMessage `json:"spent_money"`
	CreatedAt   string          `json:"created_at"`
	Description string          `json:"description"`
}

func (c *Client) ListPayments(ctx context.Context) ([]core.PaymentEvent, error) {
	var rows []paymentRow
	if err := c.do(ctx, http.MethodGet, "/payments", nil, &rows); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]core.PaymentEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.PaymentEvent{
			AmountCents: rawAmountCents(r.AmountPaid),
			OccurredAt:  parseWireTime(r.CreatedAt),
			Description: r.Description,
		})
	}
	return out, nil
}

func (c *Client) ListSpends(ctx context.Context) ([]core.SpendEvent, error) {
	var rows []spendRow
	if err := c.do(ctx, http.MethodGet, "/spent-money", nil, &rows); err != nil {
		return nil, fmt.Errorf("list spends: %w", err)
	}
	out := make([]core.SpendEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.SpendEvent{
			AmountCents: rawAmountCents(r.SpentMoney),
			OccurredAt:  parseWireTime(r.CreatedAt),
			Description: r.Description,
		})
	}
	return out, nil
}

// rawAmountCents converts a wire amount (JSON number or quoted string,
// in currency units) to cents. Malformed or missing values become 0.
func rawAmountCents(raw json.RawMessage) int64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return core.CentsFromFloat(f)
}

// parseWireTime accepts RFC 3339 or the backend's space-separated
// variant. Unparseable values become the zero time.
func parseWireTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}
