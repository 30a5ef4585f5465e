// Package queue defines message payloads exchanged over the message broker.
package queue

// DocumentRecordedEvent is published when a document metadata record is
// persisted.  It carries enough information for downstream consumers to
// log, notify, or feed an analysis pipeline without querying the primary
// database.
type DocumentRecordedEvent struct {
	DocumentID   uint64 `json:"document_id"`
	UserID       uint64 `json:"user_id"`
	DocumentType string `json:"document_type"`
	Title        string `json:"title"`
	DocumentDate string `json:"document_date"`
	RecordedAt   string `json:"recorded_at"`
}
