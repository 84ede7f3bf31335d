package scopes

import (
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func WithID(id uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithIDs(ids ...uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", ids)
	}
}

func WithPendingStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.ORDER_PENDING)
}

func WithStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

func WithCategory(category string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category == "" {
			return db
		}
		return db.Where("category = ?", category)
	}
}

func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc")
}
