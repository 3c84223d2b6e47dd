package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"brandmize/internal/core"
	"brandmize/internal/metrics"
)

type fakeStager struct {
	batches map[string][]core.Lead
	err     error
}

func (f *fakeStager) StageLeads(_ context.Context, batchID string, leads []core.Lead) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.batches == nil {
		f.batches = map[string][]core.Lead{}
	}
	f.batches[batchID] = leads
	return len(leads), nil
}

func (f *fakeStager) Close() error { return nil }

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishLeadSync(_ context.Context, batchID string, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, batchID)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

const sampleCSV = `name,email,phone,company
Ada Lovelace,ada@example.com,+14155550100,Analytical
Grace Hopper,,+14155550101,
Bad Row,,,
`

func TestImportCSVStagesAndPublishes(t *testing.T) {
	stager := &fakeStager{}
	pub := &fakePublisher{}
	svc := NewLeadImportService(stager, pub, nil)

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if res.BatchID == "" {
		t.Error("expected a batch id")
	}
	if res.Staged != 2 {
		t.Errorf("staged = %d, want 2", res.Staged)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Row != 4 {
		t.Errorf("skipped = %+v, want row 4 rejected", res.Skipped)
	}

	staged := stager.batches[res.BatchID]
	if len(staged) != 2 || staged[0].Name != "Ada Lovelace" {
		t.Errorf("unexpected staged leads: %+v", staged)
	}
	if len(pub.published) != 1 || pub.published[0] != res.BatchID {
		t.Errorf("published = %v, want the batch id", pub.published)
	}
}

func TestImportCSVCountsStagedLeads(t *testing.T) {
	m := metrics.New()
	svc := NewLeadImportService(&fakeStager{}, &fakePublisher{}, m)

	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if got := testutil.ToFloat64(m.LeadsStaged); got != 2 {
		t.Errorf("LeadsStaged = %v, want 2", got)
	}
}

func TestImportCSVPublishFailureDoesNotFailImport(t *testing.T) {
	stager := &fakeStager{}
	pub := &fakePublisher{err: errors.New("amqp down")}
	svc := NewLeadImportService(stager, pub, nil)

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ImportCSV should succeed when only publish fails: %v", err)
	}
	if res.Staged != 2 {
		t.Errorf("staged = %d, want 2", res.Staged)
	}
}

func TestImportCSVNilPublisher(t *testing.T) {
	svc := NewLeadImportService(&fakeStager{}, nil, nil)

	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatalf("ImportCSV with nil publisher: %v", err)
	}
}

func TestImportCSVRejectsUselessUploads(t *testing.T) {
	svc := NewLeadImportService(&fakeStager{}, &fakePublisher{}, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"missing phone column", "name,email\nAda,ada@example.com\n"},
		{"header only", "name,email,phone,company\n"},
		{"all rows invalid", "name,phone\nAda,not-a-phone\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ImportCSV(ctx, strings.NewReader(tc.csv)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseLeadCSVColumnOrder(t *testing.T) {
	// Columns in a different order, extra column ignored.
	csv := "phone,company,name,notes\n+14155550100,Acme,Ada Lovelace,vip\n"
	leads, skipped, err := ParseLeadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseLeadCSV: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %+v, want none", skipped)
	}
	if len(leads) != 1 || leads[0].Name != "Ada Lovelace" || leads[0].Phone != "+14155550100" || leads[0].Company != "Acme" {
		t.Errorf("unexpected leads: %+v", leads)
	}
	if leads[0].Status != core.LeadStatusNew {
		t.Errorf("status = %q, want %q", leads[0].Status, core.LeadStatusNew)
	}
}

func TestParseLeadCSVSkipsBlankRows(t *testing.T) {
	csv := "name,phone\nAda,+14155550100\n,\n"
	leads, skipped, err := ParseLeadCSV(strings.NewReader(csv))
	if err != nil || len(leads) != 1 || len(skipped) != 0 {
		t.Fatalf("leads=%d skipped=%d err=%v, want 1/0/nil", len(leads), len(skipped), err)
	}
}

func TestParseLeadCSVRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("name,phone\n")
	for i := 0; i < maxImportRows+10; i++ {
		fmt.Fprintf(&b, "Lead %d,+1415555%04d\n", i, i)
	}

	leads, skipped, err := ParseLeadCSV(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseLeadCSV: %v", err)
	}
	if len(leads) != maxImportRows {
		t.Errorf("leads = %d, want %d", len(leads), maxImportRows)
	}
	if len(skipped) != 1 || skipped[0].Reason != "row limit reached" {
		t.Errorf("skipped = %+v, want one row limit entry", skipped)
	}
}

func TestLeadImportService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		service := &LeadImportService{}

		if err := service.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})
}
