package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"brandmize/internal/core"
)

type callRow struct {
	ID          string          `json:"id"`
	LeadID      string          `json:"lead_id"`
	Number      string          `json:"phone_number"`
	StartedAt   string          `json:"started_at"`
	DurationSec int             `json:"duration_sec"`
	Status      string          `json:"status"`
	Outcome     string          `json:"outcome"`
	Cost        json.RawMessage `json:"cost"`
	Recording   string          `json:"recording_url"`
}

func (r callRow) toCore() core.CallRecord {
	return core.CallRecord{
		ID:          r.ID,
		LeadID:      r.LeadID,
		Number:      r.Number,
		StartedAt:   parseWireTime(r.StartedAt),
		DurationSec: r.DurationSec,
		Status:      r.Status,
		Outcome:     r.Outcome,
		CostCents:   rawAmountCents(r.Cost),
		Recording:   r.Recording,
	}
}

func (c *Client) ListCalls(ctx context.Context) ([]core.CallRecord, error) {
	var rows []callRow
	if err := c.do(ctx, http.MethodGet, "/calls", nil, &rows); err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	out := make([]core.CallRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (c *Client) StartCall(ctx context.Context, leadID, number string) (core.CallRecord, error) {
	in := map[string]string{
		"lead_id":      leadID,
		"phone_number": number,
	}
	var row callRow
	if err := c.do(ctx, http.MethodPost, "/calls", in, &row); err != nil {
		return core.CallRecord{}, fmt.Errorf("start call: %w", err)
	}
	return row.toCore(), nil
}
