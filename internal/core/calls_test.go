package core

import "testing"

func TestSummarizeCalls(t *testing.T) {
	calls := []CallRecord{
		{DurationSec: 61, CostCents: 120, Outcome: "answered"},
		{DurationSec: 60, CostCents: 60, Outcome: "answered"},
		{DurationSec: 0, CostCents: 0, Outcome: "no-answer"},
		{DurationSec: 30, CostCents: 60},
	}

	sum := SummarizeCalls(calls)

	if sum.TotalCalls != 4 {
		t.Errorf("TotalCalls = %d, want 4", sum.TotalCalls)
	}
	// 61s rounds up to 2 minutes, 60s is exactly 1, 30s rounds up to 1.
	if sum.TotalMinutes != 4 {
		t.Errorf("TotalMinutes = %d, want 4", sum.TotalMinutes)
	}
	if sum.TotalCostCents != 240 {
		t.Errorf("TotalCostCents = %d, want 240", sum.TotalCostCents)
	}
	if sum.ByOutcome["answered"] != 2 {
		t.Errorf("ByOutcome[answered] = %d, want 2", sum.ByOutcome["answered"])
	}
	if sum.ByOutcome["unknown"] != 1 {
		t.Errorf("ByOutcome[unknown] = %d, want 1", sum.ByOutcome["unknown"])
	}
}

func TestSummarizeCallsEmpty(t *testing.T) {
	sum := SummarizeCalls(nil)
	if sum.TotalCalls != 0 || sum.TotalMinutes != 0 || sum.TotalCostCents != 0 {
		t.Errorf("empty summary not zero: %+v", sum)
	}
	if len(sum.ByOutcome) != 0 {
		t.Errorf("ByOutcome not empty: %v", sum.ByOutcome)
	}
}
