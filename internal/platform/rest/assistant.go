package rest

import (
	"context"
	"fmt"
	"net/http"

	"brandmize/internal/core"
)

type assistantBody struct {
	Name           string `json:"name"`
	Greeting       string `json:"greeting"`
	Voice          string `json:"voice"`
	Language       string `json:"language"`
	Transcriber    string `json:"transcriber"`
	Model          string `json:"model"`
	MaxDurationSec int    `json:"max_duration_sec"`
	Interruptible  bool   `json:"interruptible"`
}

func (c *Client) GetAssistant(ctx context.Context) (core.AssistantProfile, error) {
	var body assistantBody
	if err := c.do(ctx, http.MethodGet, "/assistant", nil, &body); err != nil {
		return core.AssistantProfile{}, fmt.Errorf("get assistant: %w", err)
	}
	return core.AssistantProfile(body), nil
}

func (c *Client) UpdateAssistant(ctx context.Context, p core.AssistantProfile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	if err := c.do(ctx, http.MethodPut, "/assistant", assistantBody(p), nil); err != nil {
		return fmt.Errorf("update assistant: %w", err)
	}
	return nil
}
