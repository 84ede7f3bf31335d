package models

import (
	"time"
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an outbox row written alongside the change that caused it.
type Notification struct {
	ID            uuid.UUID                 `gorm:"primarykey;type:uuid" json:"id"`
	Channel       types.NotificationChannel `gorm:"index" json:"channel"`
	Subject       string                    `json:"subject"`
	Body          string                    `json:"body"`
	Payload       types.JSONB               `gorm:"type:jsonb" json:"payload,omitempty"`
	Status        types.NotificationStatus  `gorm:"index;default:'pending'" json:"status"`
	Attempts      int                       `json:"attempts"`
	NextAttemptAt time.Time                 `gorm:"index" json:"next_attempt_at"`
	LastError     *string                   `json:"last_error,omitempty"`
	SentAt        *time.Time                `json:"sent_at,omitempty"`
	SourceType    string                    `json:"source_type"`
	SourceID      string                    `json:"source_id"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = types.NOTIFICATION_PENDING
	}
	if n.NextAttemptAt.IsZero() {
		n.NextAttemptAt = time.Now()
	}
	return nil
}
