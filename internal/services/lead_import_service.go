package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"brandmize/internal/core"
	"brandmize/internal/metrics"
)

// LeadStager is the staging store port used by the import service.
type LeadStager interface {
	StageLeads(ctx context.Context, batchID string, leads []core.Lead) (int, error)
	Close() error
}

// SyncPublisher announces staged batches to the sync worker.
type SyncPublisher interface {
	PublishLeadSync(ctx context.Context, batchID string, count int) error
	Close() error
}

// RowError records a CSV row rejected during import.
type RowError struct {
	Row    int
	Reason string
}

// ImportResult summarizes one CSV import.
type ImportResult struct {
	BatchID string
	Staged  int
	Skipped []RowError
}

// LeadImportService stages uploaded leads locally and publishes a sync
// message for the worker. The upload succeeds as soon as the rows are
// in SQLite; pushing them to the platform happens asynchronously.
type LeadImportService struct {
	storage   LeadStager
	publisher SyncPublisher
	metrics   *metrics.Metrics
}

func NewLeadImportService(storage LeadStager, publisher SyncPublisher, m *metrics.Metrics) *LeadImportService {
	return &LeadImportService{
		storage:   storage,
		publisher: publisher,
		metrics:   m,
	}
}

// ImportCSV parses an uploaded CSV, stages the valid rows under a fresh
// batch id and announces the batch. Invalid rows are skipped and
// reported; the import fails only when no row survives.
func (s *LeadImportService) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	leads, skipped, err := ParseLeadCSV(r)
	if err != nil {
		return ImportResult{}, err
	}
	if len(leads) == 0 {
		return ImportResult{Skipped: skipped}, fmt.Errorf("no valid leads in upload (%d rows skipped)", len(skipped))
	}

	batchID := uuid.NewString()
	staged, err := s.storage.StageLeads(ctx, batchID, leads)
	if err != nil {
		return ImportResult{}, fmt.Errorf("stage batch: %w", err)
	}
	if s.metrics != nil {
		s.metrics.LeadsStaged.Add(float64(staged))
	}

	if err := s.publishSyncMessage(ctx, batchID, staged); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"batch_id", batchID, "error", err)
		// Don't fail the request; the poll processor picks the batch up.
	}

	return ImportResult{BatchID: batchID, Staged: staged, Skipped: skipped}, nil
}

func (s *LeadImportService) publishSyncMessage(ctx context.Context, batchID string, count int) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishLeadSync(ctx, batchID, count)
}

// Close closes both storage and AMQP connections
func (s *LeadImportService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close lead import service: %v", errs)
	}

	return nil
}

// maxImportRows caps a single upload; larger lists should be split
// into multiple batches.
const maxImportRows = 5000

// ParseLeadCSV reads a lead CSV with a header row. Column order is
// free; name and phone are required, email and company optional.
func ParseLeadCSV(r io.Reader) ([]core.Lead, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, nil, fmt.Errorf("csv missing required column %q", "name")
	}
	phoneIdx, ok := cols["phone"]
	if !ok {
		return nil, nil, fmt.Errorf("csv missing required column %q", "phone")
	}
	emailIdx, hasEmail := cols["email"]
	companyIdx, hasCompany := cols["company"]

	field := func(record []string, idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var (
		leads   []core.Lead
		skipped []RowError
	)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if len(leads) >= maxImportRows {
			skipped = append(skipped, RowError{Row: row, Reason: "row limit reached"})
			break
		}
		if err != nil {
			skipped = append(skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}

		l := core.Lead{
			Name:   field(record, nameIdx),
			Phone:  field(record, phoneIdx),
			Status: core.LeadStatusNew,
		}
		if hasEmail {
			l.Email = field(record, emailIdx)
		}
		if hasCompany {
			l.Company = field(record, companyIdx)
		}

		if l.Name == "" && l.Phone == "" {
			continue // blank line
		}
		if err := l.Validate(); err != nil {
			skipped = append(skipped, RowError{Row: row, Reason: err.Error()})
			continue
		}
		leads = append(leads, l)
	}

	return leads, skipped, nil
}
