package rest

import (
	"context"
	"fmt"
	"net/http"

	"brandmize/internal/core"
)

type leadRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (c *Client) ListLeads(ctx context.Context) ([]core.Lead, error) {
	var rows []leadRow
	if err := c.do(ctx, http.MethodGet, "/leads", nil, &rows); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	out := make([]core.Lead, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Lead{
			ID:      r.ID,
			Name:    r.Name,
			Email:   r.Email,
			Phone:   r.Phone,
			Company: r.Company,
			Status:  core.LeadStatus(r.Status),
			AddedAt: parseWireTime(r.CreatedAt),
		})
	}
	return out, nil
}

func (c *Client) CreateLead(ctx context.Context, l core.Lead) (string, error) {
	if err := l.Validate(); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	in := map[string]string{
		"name":    l.Name,
		"email":   l.Email,
		"phone":   l.Phone,
		"company": l.Company,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/leads", in, &out); err != nil {
		return "", fmt.Errorf("create lead: %w", err)
	}
	return out.ID, nil
}
