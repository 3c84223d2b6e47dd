package core

// SummarizeCalls aggregates call history for the analytics widgets. Each
// call's duration is rounded up to whole minutes, matching how the
// platform bills call time. Calls without an outcome are bucketed under
// "unknown".
func SummarizeCalls(calls []CallRecord) CallSummary {
	sum := CallSummary{ByOutcome: make(map[string]int)}
	for _, c := range calls {
		sum.TotalCalls++
		if c.DurationSec > 0 {
			sum.TotalMinutes += int64((c.DurationSec + 59) / 60)
		}
		sum.TotalCostCents += c.CostCents
		outcome := c.Outcome
		if outcome == "" {
			outcome = "unknown"
		}
		sum.ByOutcome[outcome]++
	}
	return sum
}
