package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"brandmize/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the local staging store for imported leads.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// StageLeads stores validated leads under one batch in a single
// transaction and returns the staged row count.
func (r *SQLiteRepository) StageLeads(ctx context.Context, batchID string, leads []core.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin staging tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStagedLead)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	staged := 0
	for _, l := range leads {
		if err := l.Validate(); err != nil {
			return 0, fmt.Errorf("lead %q: %w", l.Name, err)
		}
		var id int64
		if err := stmt.QueryRowContext(ctx, batchID, l.Name, l.Email, l.Phone, l.Company).Scan(&id); err != nil {
			return 0, fmt.Errorf("stage lead %q: %w", l.Name, err)
		}
		staged++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit staging tx: %w", err)
	}

	slog.InfoContext(ctx, "Leads staged for sync",
		"batch_id", batchID,
		"count", staged)

	return staged, nil
}

// GetPendingLeads returns up to limit leads awaiting sync, oldest first.
func (r *SQLiteRepository) GetPendingLeads(ctx context.Context, limit int) ([]StagedLead, error) {
	leads, err := r.queries.GetPendingLeads(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending leads: %w", err)
	}
	return leads, nil
}

// GetBatchLeads returns every staged lead of one import batch.
func (r *SQLiteRepository) GetBatchLeads(ctx context.Context, batchID string) ([]StagedLead, error) {
	leads, err := r.queries.GetBatchLeads(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("get batch leads: %w", err)
	}
	return leads, nil
}

// MarkSynced records the platform id assigned to a staged lead.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, remoteID string) error {
	if err := r.queries.MarkLeadSynced(ctx, id, remoteID); err != nil {
		return fmt.Errorf("mark lead synced: %w", err)
	}
	slog.InfoContext(ctx, "Lead marked as synced", "id", id, "remote_id", remoteID)
	return nil
}

// MarkSyncError records a failed sync attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64, cause string) error {
	if err := r.queries.MarkLeadSyncError(ctx, id, cause); err != nil {
		return fmt.Errorf("mark lead sync error: %w", err)
	}
	slog.WarnContext(ctx, "Lead marked with sync error", "id", id, "cause", cause)
	return nil
}

// PendingCount returns how many staged leads still await sync.
func (r *SQLiteRepository) PendingCount(ctx context.Context) (int64, error) {
	n, err := r.queries.CountByStatus(ctx, SyncPending)
	if err != nil {
		return 0, fmt.Errorf("count pending leads: %w", err)
	}
	return n, nil
}

// Lead converts a staged row back into the domain shape.
func (l StagedLead) Lead() core.Lead {
	return core.Lead{
		Name:    l.Name,
		Email:   l.Email,
		Phone:   l.Phone,
		Company: l.Company,
		Status:  core.LeadStatusNew,
		AddedAt: l.CreatedAt,
	}
}
