package models

import (
	"encoding/json"
	"time"
)

// AuditAction names what happened to an invoice.
type AuditAction string

const (
	AuditCreated       AuditAction = "created"
	AuditStatusChanged AuditAction = "status_changed"
	AuditUpdated       AuditAction = "updated"
	AuditVoided        AuditAction = "voided"
	AuditEmailSent     AuditAction = "email_sent"
	AuditDeleted       AuditAction = "deleted"
)

// AuditLogEntry is one immutable record in an invoice's history. The value and metadata
// payloads are opaque JSON objects.
type AuditLogEntry struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Action    AuditAction     `json:"action"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
