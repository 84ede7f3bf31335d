package models

import (
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryItem struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Category    string    `gorm:"index" json:"category"`
	StoragePath string    `gorm:"not null" json:"storage_path"`
	URL         string    `json:"url"`
	Caption     *string   `json:"caption,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Approved    bool      `gorm:"index" json:"approved"`

	types.Timestamps
}

func (g *GalleryItem) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
