package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"brandmize/internal/core"
)

const dateLayout = "2006-01-02"

// parsePage returns the 1-based page parameter, defaulting to 1. Garbage
// and non-positive values fall back to the first page rather than failing
// the request.
func parsePage(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("page"))
	if v == "" {
		return 1
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// maxPageSize bounds page_size so a client cannot request the whole
// collection in one page.
const maxPageSize = 100

func parsePageSize(r *http.Request) int {
	v := strings.TrimSpace(r.URL.Query().Get("page_size"))
	if v == "" {
		return core.DefaultPageSize
	}
	size, err := strconv.Atoi(v)
	if err != nil || size < 1 {
		return core.DefaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func parseQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("q"))
}

// parseWindow reads the optional from/to date bounds. Either side may be
// given alone. The to bound is inclusive of the whole named day.
func parseWindow(r *http.Request) (core.LedgerWindow, error) {
	var window core.LedgerWindow

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return window, fmt.Errorf("invalid from date %q, want YYYY-MM-DD", v)
		}
		window.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return window, fmt.Errorf("invalid to date %q, want YYYY-MM-DD", v)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		window.To = &end
	}
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return core.LedgerWindow{}, fmt.Errorf("to date precedes from date")
	}
	return window, nil
}

// parseMinCost reads the optional min_cost filter as a decimal amount.
// Returns -1 when absent.
func parseMinCost(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("min_cost"))
	if v == "" {
		return -1, nil
	}
	cents, err := core.ParseCents(v)
	if err != nil {
		return 0, fmt.Errorf("invalid min_cost %q: %w", v, err)
	}
	return cents, nil
}
