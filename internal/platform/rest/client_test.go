package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brandmize/internal/core"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL: srv.URL,
		Token:   "static-test-token",
		Timeout: 2 * time.Second,
	}, nil)
}

func TestListPaymentsTolerantDecode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer static-test-token" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `[
			{"amount_paid": 100.50, "created_at": "2025-01-02T10:00:00Z", "description": "Top-up"},
			{"amount_paid": "25.00", "created_at": "2025-01-03 08:30:00", "description": "quoted amount"},
			{"amount_paid": "not-a-number", "created_at": "garbage", "description": "malformed"},
			{"description": "missing fields"}
		]`)
	}))

	got, err := c.ListPayments(context.Background())
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].AmountCents != 10050 {
		t.Errorf("amount[0] = %d, want 10050", got[0].AmountCents)
	}
	if got[1].AmountCents != 2500 {
		t.Errorf("amount[1] = %d, want 2500", got[1].AmountCents)
	}
	for _, i := range []int{2, 3} {
		if got[i].AmountCents != 0 {
			t.Errorf("amount[%d] = %d, want 0 for malformed input", i, got[i].AmountCents)
		}
		if !got[i].OccurredAt.IsZero() {
			t.Errorf("time[%d] = %v, want zero for malformed input", i, got[i].OccurredAt)
		}
	}
}

func TestListSpends(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spent-money" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `[{"spent_money": 3.75, "created_at": "2025-02-01T00:00:00Z", "description": "call minutes"}]`)
	}))

	got, err := c.ListSpends(context.Background())
	if err != nil {
		t.Fatalf("ListSpends: %v", err)
	}
	if len(got) != 1 || got[0].AmountCents != 375 || got[0].Description != "call minutes" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestAPIErrorDecode(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"code": "insufficient_funds", "message": "account balance too low"}`)
	}))

	_, err := c.ListCalls(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusPaymentRequired || apiErr.Code != "insufficient_funds" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestLoginAndReauth(t *testing.T) {
	logins := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if creds["email"] != "ops@example.com" || creds["password"] != "hunter2" {
			t.Errorf("unexpected credentials %v", creds)
		}
		// Deliberately opaque token with no parseable exp claim; the
		// client keeps using it until told otherwise.
		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	})
	mux.HandleFunc("/leads", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer issued-token" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{
		BaseURL:  srv.URL,
		Email:    "ops@example.com",
		Password: "hunter2",
		Timeout:  2 * time.Second,
	}, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.ListLeads(ctx); err != nil {
			t.Fatalf("ListLeads #%d: %v", i, err)
		}
	}
	if logins != 1 {
		t.Errorf("logins = %d, want 1 (token reused across calls)", logins)
	}

	c.Teardown()
	if _, err := c.ListLeads(ctx); err != nil {
		t.Fatalf("ListLeads after teardown: %v", err)
	}
	if logins != 2 {
		t.Errorf("logins = %d, want 2 after teardown", logins)
	}
}

func TestCreateLeadValidates(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be reached for an invalid lead")
	}))

	_, err := c.CreateLead(context.Background(), core.Lead{Name: "No Phone"})
	if !errors.Is(err, core.ErrEmptyPhone) {
		t.Fatalf("err = %v, want ErrEmptyPhone", err)
	}
}

func TestAssistantRoundTrip(t *testing.T) {
	var stored assistantBody
	mux := http.NewServeMux()
	mux.HandleFunc("/assistant", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
				t.Fatalf("decode: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	c := testClient(t, mux)

	profile := core.AssistantProfile{
		Name:           "Atlas",
		Greeting:       "Hi, this is Atlas from Brandmize.",
		Voice:          "nova",
		Language:       "en-US",
		Transcriber:    "deepgram",
		Model:          "gpt-4o",
		MaxDurationSec: 300,
		Interruptible:  true,
	}
	ctx := context.Background()
	if err := c.UpdateAssistant(ctx, profile); err != nil {
		t.Fatalf("UpdateAssistant: %v", err)
	}
	got, err := c.GetAssistant(ctx)
	if err != nil {
		t.Fatalf("GetAssistant: %v", err)
	}
	if got != profile {
		t.Errorf("got %+v, want %+v", got, profile)
	}
}

func TestParseWireTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-02T10:00:00Z", time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2025-01-02 10:00:00", time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{"2025-01-02", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}
	for _, tc := range cases {
		if got := parseWireTime(tc.in); !got.Equal(tc.want) {
			t.Errorf("parseWireTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
