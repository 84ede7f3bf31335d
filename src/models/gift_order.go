package models

import (
	"time"
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GiftOrder struct {
	ID          uuid.UUID         `gorm:"primarykey;type:uuid" json:"id"`
	OrderNumber string            `gorm:"uniqueIndex;not null" json:"order_number"`
	BuyerName   string            `json:"buyer_name"`
	BuyerEmail  string            `json:"buyer_email"`
	BuyerPhone  *string           `json:"buyer_phone,omitempty"`
	Items       types.OrderLines  `gorm:"type:jsonb" json:"items"`
	Total       float64           `gorm:"type:numeric(10,2)" json:"total"`
	Status      types.OrderStatus `gorm:"index;default:'pending'" json:"status"`
	PixCode     string            `json:"pix_code"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	Notes       *string           `json:"notes,omitempty"`

	types.Timestamps
}

func (o *GiftOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o GiftOrder) IsPending() bool {
	return o.Status == types.ORDER_PENDING
}
