package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"brandmize/internal/core"
)

type numberRow struct {
	ID           string          `json:"id"`
	Number       string          `json:"phone_number"`
	FriendlyName string          `json:"friendly_name"`
	Region       string          `json:"region"`
	Capabilities []string        `json:"capabilities"`
	MonthlyCost  json.RawMessage `json:"monthly_cost"`
	PurchasedAt  string          `json:"purchased_at"`
}

func (r numberRow) toCore() core.PhoneNumber {
	return core.PhoneNumber{
		ID:           r.ID,
		Number:       r.Number,
		FriendlyName: r.FriendlyName,
		Region:       r.Region,
		Capabilities: r.Capabilities,
		MonthlyCents: rawAmountCents(r.MonthlyCost),
		PurchasedAt:  parseWireTime(r.PurchasedAt),
	}
}

func (c *Client) ListNumbers(ctx context.Context) ([]core.PhoneNumber, error) {
	var rows []numberRow
	if err := c.do(ctx, http.MethodGet, "/phone-numbers", nil, &rows); err != nil {
		return nil, fmt.Errorf("list numbers: %w", err)
	}
	out := make([]core.PhoneNumber, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (c *Client) SearchNumbers(ctx context.Context, region string) ([]core.PhoneNumber, error) {
	path := "/phone-numbers/search"
	if region != "" {
		path += "?region=" + url.QueryEscape(region)
	}
	var rows []numberRow
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("search numbers: %w", err)
	}
	out := make([]core.PhoneNumber, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (c *Client) PurchaseNumber(ctx context.Context, number string) (core.PhoneNumber, error) {
	in := map[string]string{"phone_number": number}
	var row numberRow
	if err := c.do(ctx, http.MethodPost, "/phone-numbers/purchase", in, &row); err != nil {
		return core.PhoneNumber{}, fmt.Errorf("purchase number: %w", err)
	}
	return row.toCore(), nil
}
