// Package worker pushes staged leads from the local database to the
// platform API, driven by AMQP batch messages. A startup drain covers
// rows left pending by downtime; the periodic fallback lives in the
// services import processor.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"brandmize/internal/amqp"
	"brandmize/internal/metrics"
	"brandmize/internal/platform"
	"brandmize/internal/storage"
)

// SyncWorker delivers staged leads to the platform API.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sink      platform.LeadSink
	batchSize int
	metrics   *metrics.Metrics
}

func NewSyncWorker(storage *storage.SQLiteRepository, sink platform.LeadSink, batchSize int, m *metrics.Metrics) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
		metrics:   m,
	}
}

// HandleSyncMessage processes one batch announcement from AMQP: it
// reads the batch's rows from the staging store and pushes every one
// still pending.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LeadSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"batch_id", msg.BatchID,
		"count", msg.Count)

	leads, err := w.storage.GetBatchLeads(ctx, msg.BatchID)
	if err != nil {
		return fmt.Errorf("get batch leads: %w", err)
	}
	if len(leads) == 0 {
		slog.WarnContext(ctx, "Sync message for unknown or empty batch", "batch_id", msg.BatchID)
		return nil
	}

	synced, failed := 0, 0
	for _, staged := range leads {
		if staged.SyncStatus != storage.SyncPending {
			continue
		}
		if err := w.pushLead(ctx, staged); err != nil {
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Batch sync completed",
		"batch_id", msg.BatchID,
		"synced", synced,
		"failed", failed)

	if failed > 0 && synced == 0 {
		// Nothing got through; let AMQP requeue the batch.
		return fmt.Errorf("batch %s: all %d pending leads failed", msg.BatchID, failed)
	}
	return nil
}

// StartupSyncCheck drains leads left pending by missed messages or
// worker downtime. It uses a larger batch than the periodic check.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingLeads(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending leads for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending leads found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending leads on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, staged := range pending {
		if err := w.pushLead(ctx, staged); err != nil {
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) pushLead(ctx context.Context, staged storage.StagedLead) error {
	remoteID, err := w.sink.CreateLead(ctx, staged.Lead())
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, staged.ID, err.Error()); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", staged.ID, "error", markErr)
		}
		return fmt.Errorf("create lead on platform: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, staged.ID, remoteID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", staged.ID, "error", err)
		// Don't return an error here, the push actually worked.
	}
	if w.metrics != nil {
		w.metrics.LeadsSynced.Inc()
	}

	slog.InfoContext(ctx, "Successfully synced lead",
		"id", staged.ID,
		"remote_id", remoteID,
		"name", staged.Name)

	return nil
}
