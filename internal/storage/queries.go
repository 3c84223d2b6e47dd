package storage

import (
	"context"
	"database/sql"
	"time"
)

// SyncStatus values for staged leads.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// StagedLead is a lead row in the local import staging table.
type StagedLead struct {
	ID         int64
	BatchID    string
	Name       string
	Email      string
	Phone      string
	Company    string
	SyncStatus string
	SyncError  string
	RemoteID   string
	CreatedAt  time.Time
	SyncedAt   sql.NullTime
}

// Queries wraps the prepared SQL for the staging table.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// Inserts run inside the repository's staging transaction, so the
// statement is prepared there rather than wrapped here.
const insertStagedLead = `
INSERT INTO staged_leads (batch_id, name, email, phone, company)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

const selectPendingLeads = `
SELECT id, batch_id, name, email, phone, company, sync_status, sync_error, remote_id, created_at, synced_at
FROM staged_leads
WHERE sync_status = 'pending'
ORDER BY id
LIMIT ?`

func (q *Queries) GetPendingLeads(ctx context.Context, limit int64) ([]StagedLead, error) {
	rows, err := q.db.QueryContext(ctx, selectPendingLeads, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStagedLeads(rows)
}

const selectBatchLeads = `
SELECT id, batch_id, name, email, phone, company, sync_status, sync_error, remote_id, created_at, synced_at
FROM staged_leads
WHERE batch_id = ?
ORDER BY id`

func (q *Queries) GetBatchLeads(ctx context.Context, batchID string) ([]StagedLead, error) {
	rows, err := q.db.QueryContext(ctx, selectBatchLeads, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStagedLeads(rows)
}

const markLeadSynced = `
UPDATE staged_leads
SET sync_status = 'synced', sync_error = '', remote_id = ?, synced_at = CURRENT_TIMESTAMP
WHERE id = ?`

func (q *Queries) MarkLeadSynced(ctx context.Context, id int64, remoteID string) error {
	_, err := q.db.ExecContext(ctx, markLeadSynced, remoteID, id)
	return err
}

const markLeadSyncError = `
UPDATE staged_leads
SET sync_status = 'error', sync_error = ?
WHERE id = ?`

func (q *Queries) MarkLeadSyncError(ctx context.Context, id int64, syncErr string) error {
	_, err := q.db.ExecContext(ctx, markLeadSyncError, syncErr, id)
	return err
}

const countByStatus = `
SELECT COUNT(*) FROM staged_leads WHERE sync_status = ?`

func (q *Queries) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countByStatus, status).Scan(&n)
	return n, err
}

func scanStagedLeads(rows *sql.Rows) ([]StagedLead, error) {
	var out []StagedLead
	for rows.Next() {
		var l StagedLead
		if err := rows.Scan(
			&l.ID, &l.BatchID, &l.Name, &l.Email, &l.Phone, &l.Company,
			&l.SyncStatus, &l.SyncError, &l.RemoteID, &l.CreatedAt, &l.SyncedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
