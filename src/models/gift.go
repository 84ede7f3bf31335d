package models

import (
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gift struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Category    string    `gorm:"index" json:"category"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `gorm:"type:numeric(10,2)" json:"price"`
	Quantity    int       `gorm:"check:quantity >= 0" json:"quantity"`
	Reserved    int       `gorm:"default:0;check:reserved >= 0" json:"reserved"`
	Sold        int       `gorm:"default:0;check:sold >= 0" json:"sold"`
	Image       string    `json:"image,omitempty"`

	types.Timestamps
}

func (g *Gift) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Available is the quantity still offerable to new checkouts.
func (g Gift) Available() int {
	available := g.Quantity - g.Reserved - g.Sold
	if available < 0 {
		return 0
	}
	return available
}

func (g Gift) CanReserve(qty int) bool {
	return qty > 0 && g.Available() >= qty
}

// GiftView is what the public catalog returns.
type GiftView struct {
	Gift
	Available int `json:"available"`
}

func (g Gift) View() GiftView {
	return GiftView{Gift: g, Available: g.Available()}
}
