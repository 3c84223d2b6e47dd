package amqp

import (
	"encoding/json"
	"time"
)

// LeadSyncMessage announces a staged import batch. It carries only the
// batch reference and row count; the worker reads the rows from the
// staging database.
type LeadSyncMessage struct {
	BatchID   string    `json:"batch_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLeadSyncMessage creates a sync message for one import batch
func NewLeadSyncMessage(batchID string, count int) *LeadSyncMessage {
	return &LeadSyncMessage{
		BatchID:   batchID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LeadSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LeadSyncMessageFromJSON creates a message from JSON bytes
func LeadSyncMessageFromJSON(data []byte) (*LeadSyncMessage, error) {
	var msg LeadSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
