package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"brandmize/internal/metrics"
	"brandmize/internal/platform"
	"brandmize/internal/storage"
)

// PendingLeadStore is the staging store port used by the processor.
type PendingLeadStore interface {
	GetPendingLeads(ctx context.Context, limit int) ([]storage.StagedLead, error)
	MarkSynced(ctx context.Context, id int64, remoteID string) error
	MarkSyncError(ctx context.Context, id int64, cause string) error
	PendingCount(ctx context.Context) (int64, error)
}

// ImportProcessorConfig holds configuration for the import processor
type ImportProcessorConfig struct {
	// PollInterval is how often to check for pending leads (default: 10s)
	PollInterval time.Duration

	// BatchSize is the max number of leads to push per poll cycle (default: 10)
	BatchSize int
}

// DefaultImportProcessorConfig returns sensible defaults
func DefaultImportProcessorConfig() ImportProcessorConfig {
	return ImportProcessorConfig{
		PollInterval: 10 * time.Second,
		BatchSize:    10,
	}
}

// ImportProcessor is the poll-based fallback behind the AMQP worker: it
// periodically pushes pending staged leads to the platform API, so a
// batch whose sync message was lost still gets delivered.
type ImportProcessor struct {
	storage PendingLeadStore
	sink    platform.LeadSink
	config  ImportProcessorConfig
	metrics *metrics.Metrics

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewImportProcessor creates a new import processor
func NewImportProcessor(store PendingLeadStore, sink platform.LeadSink, config ImportProcessorConfig, m *metrics.Metrics) *ImportProcessor {
	return &ImportProcessor{
		storage: store,
		sink:    sink,
		config:  config,
		metrics: m,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *ImportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("import processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Import processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)

	return nil
}

// Stop gracefully stops the processor and waits for completion.
func (p *ImportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Import processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Import processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning returns whether the processor is currently running
func (p *ImportProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// runLoop is the main processing loop
func (p *ImportProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()

	// Process immediately on startup
	p.ProcessBatch(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch pushes one batch of pending leads to the platform and
// returns how many synced.
func (p *ImportProcessor) ProcessBatch(ctx context.Context) int {
	pending, err := p.storage.GetPendingLeads(ctx, p.config.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch pending leads", "error", err)
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	slog.DebugContext(ctx, "Processing pending leads", "count", len(pending))

	synced := 0
	for _, staged := range pending {
		select {
		case <-p.stopCh:
			return synced
		case <-ctx.Done():
			return synced
		default:
		}

		remoteID, err := p.sink.CreateLead(ctx, staged.Lead())
		if err != nil {
			slog.WarnContext(ctx, "Failed to push lead to platform",
				"id", staged.ID,
				"batch_id", staged.BatchID,
				"error", err)
			if markErr := p.storage.MarkSyncError(ctx, staged.ID, err.Error()); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark lead sync error",
					"id", staged.ID, "error", markErr)
			}
			continue
		}

		if err := p.storage.MarkSynced(ctx, staged.ID, remoteID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark lead as synced",
				"id", staged.ID, "error", err)
			continue
		}
		if p.metrics != nil {
			p.metrics.LeadsSynced.Inc()
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending lead batch processed",
		"total", len(pending),
		"synced", synced)

	return synced
}

// PendingCount reports how many staged leads still await sync.
func (p *ImportProcessor) PendingCount(ctx context.Context) (int64, error) {
	return p.storage.PendingCount(ctx)
}
