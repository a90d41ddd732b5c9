package entities

import "time"

type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
	AuditEventReuse  AuditEventType = "reuse"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusBlocked AuditStatus = "blocked"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one recorded catalog mutation attempt.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RequestID   string         `gorm:"index;size:64" json:"request_id,omitempty"`
	EventType   AuditEventType `gorm:"index;size:20" json:"event_type"`
	Action      string         `gorm:"size:64" json:"action"` // "<kind>_<op>", e.g. "genre_reuse"
	Description string         `gorm:"size:500" json:"description"`
	EntityType  Kind           `gorm:"index:idx_audit_entity;size:20" json:"entity_type"`
	EntityID    string         `gorm:"index:idx_audit_entity;size:36" json:"entity_id,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"`
	Status      AuditStatus    `gorm:"index;size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

// AuditQuery selects audit events. Zero fields do not filter; a zero Limit
// means the default page size and a negative one means no limit.
type AuditQuery struct {
	Kind     Kind
	EntityID string
	Status   AuditStatus
	Limit    int
	Offset   int
}
