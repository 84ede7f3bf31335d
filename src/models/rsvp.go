package models

import (
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RSVP struct {
	ID        uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     *string   `gorm:"uniqueIndex:idx_rsvp_phone,where:phone IS NOT NULL" json:"phone,omitempty"`
	Message   *string   `json:"message,omitempty"`
	Confirmed bool      `gorm:"default:true" json:"confirmed"`

	types.Timestamps
}

func (RSVP) TableName() string {
	return "rsvp"
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PublicRSVP hides contact details from the guest-facing list.
type PublicRSVP struct {
	Name      string  `json:"name"`
	Message   *string `json:"message,omitempty"`
	CreatedAt string  `json:"created_at"`
}
