package models

import (
	"time"
)

const (
	TopicHistoryCreate = "history.create"
	TopicHistoryStatus = "history.status"
)

// OutboxEvent records a document-store change that has to follow a committed
// relational change. Rows are written in the same transaction as the change.
type OutboxEvent struct {
	ID          uint       `gorm:"primaryKey"`
	Topic       string     `gorm:"type:varchar(50);not null;index:idx_outbox_topic"`
	RecordID    uint       `gorm:"not null"`
	Payload     string     `gorm:"type:text;not null"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   string     `gorm:"type:text"`
	Processed   bool       `gorm:"not null;default:false;index:idx_outbox_processed"`
	CreatedAt   time.Time  `gorm:"not null"`
	ProcessedAt *time.Time
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// StatusChange is the payload of a history.status event.
type StatusChange struct {
	OrderID uint        `json:"pedido_id"`
	Status  OrderStatus `json:"estado"`
}
