package repository

import (
	"context"
	"errors"
	"log"
	"time"
	"wedding/src/models"
	"wedding/src/models/scopes"
	"wedding/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}

func pendingOrError(status types.OrderStatus) error {
	switch status {
	case types.ORDER_CONFIRMED:
		return types.ErrAlreadyConfirmed
	case types.ORDER_CANCELLED:
		return types.ErrAlreadyCancelled
	}
	return nil
}

func (s *GormStore) ListGifts(ctx context.Context, category string) ([]models.Gift, error) {
	var gifts []models.Gift
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithCategory(category)).
		Order("category asc").
		Order("name asc").
		Find(&gifts).
		Error
	return gifts, err
}

func (s *GormStore) GetGift(ctx context.Context, id uuid.UUID) (*models.Gift, error) {
	var gift models.Gift
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&gift).Error; err != nil {
		return nil, notFound(err)
	}
	return &gift, nil
}

func (s *GormStore) GetGifts(ctx context.Context, ids []uuid.UUID) ([]models.Gift, error) {
	var gifts []models.Gift
	if len(ids) == 0 {
		return gifts, nil
	}
	err := s.db.WithContext(ctx).Scopes(scopes.WithIDs(ids...)).Find(&gifts).Error
	return gifts, err
}

func (s *GormStore) SeedGifts(ctx context.Context, gifts []models.Gift) (int, error) {
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Gift{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 || len(gifts) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&gifts, 50).Error; err != nil {
			return err
		}
		inserted = len(gifts)
		return nil
	})
	return inserted, err
}

func (s *GormStore) UpdateGiftInventory(ctx context.Context, id uuid.UUID, quantity, reserved, sold int) (*models.Gift, error) {
	if err := validInventory(quantity, reserved, sold); err != nil {
		return nil, err
	}
	var gift models.Gift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(scopes.WithID(id)).
			First(&gift).
			Error; err != nil {
			return notFound(err)
		}
		return tx.
			Model(&gift).
			Updates(map[string]any{
				"quantity": quantity,
				"reserved": reserved,
				"sold":     sold,
			}).
			Error
	})
	if err != nil {
		return nil, err
	}
	gift.Quantity, gift.Reserved, gift.Sold = quantity, reserved, sold
	return &gift, nil
}

// CreateOrder reserves every line with a conditional update and inserts the
// order and its notifications. Any line that does not fit rolls back the
// whole transaction with an AvailabilityConflictError.
func (s *GormStore) CreateOrder(ctx context.Context, order *models.GiftOrder, notifications ...*models.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issues := []types.AvailabilityIssue{}
		for _, line := range order.Items {
			res := tx.
				Model(&models.Gift{}).
				Where("id = ? AND reserved + sold + ? <= quantity", line.GiftID, line.Quantity).
				Updates(map[string]any{
					"reserved":   gorm.Expr("reserved + ?", line.Quantity),
					"updated_at": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				continue
			}
			issue := types.AvailabilityIssue{GiftID: line.GiftID, Name: line.Name, Requested: line.Quantity}
			var gift models.Gift
			if err := tx.Scopes(scopes.WithID(line.GiftID)).First(&gift).Error; err == nil {
				issue.Available = gift.Available()
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			issues = append(issues, issue)
		}
		if len(issues) > 0 {
			return &types.AvailabilityConflictError{Issues: issues}
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, n := range notifications {
			n.SourceType, n.SourceID = "gift_orders", order.ID.String()
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.GiftOrder, error) {
	var order models.GiftOrder
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *GormStore) GetOrderByNumber(ctx context.Context, number string) (*models.GiftOrder, error) {
	var order models.GiftOrder
	if err := s.db.WithContext(ctx).Where("order_number = ?", number).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (s *GormStore) ListOrders(ctx context.Context, status string) ([]models.GiftOrder, error) {
	var orders []models.GiftOrder
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithStatus(status), scopes.Newest).
		Find(&orders).
		Error
	return orders, err
}

// settle locks the order, moves it out of pending and applies move to every
// gift referenced by its lines. Missing gifts are logged and skipped.
func (s *GormStore) settle(ctx context.Context, id uuid.UUID, updates map[string]any, move func(line types.OrderLine) map[string]any, notifications []*models.Notification) (*models.GiftOrder, error) {
	var order models.GiftOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(scopes.WithID(id)).
			First(&order).
			Error; err != nil {
			return notFound(err)
		}
		if err := pendingOrError(order.Status); err != nil {
			return err
		}
		res := tx.
			Model(&models.GiftOrder{}).
			Scopes(scopes.WithID(id), scopes.WithPendingStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.GiftOrder
			if err := tx.Select("status").Scopes(scopes.WithID(id)).First(&current).Error; err != nil {
				return notFound(err)
			}
			if err := pendingOrError(current.Status); err != nil {
				return err
			}
			return types.ErrNotFound
		}
		for _, line := range order.Items {
			res := tx.
				Model(&models.Gift{}).
				Scopes(scopes.WithID(line.GiftID)).
				Updates(move(line))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				log.Printf("Gift [%s] referenced by order %s no longer exists\n", line.GiftID, order.OrderNumber)
			}
		}
		for _, n := range notifications {
			n.SourceType, n.SourceID = "gift_orders", order.ID.String()
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) ConfirmOrder(ctx context.Context, id uuid.UUID, at time.Time, notifications ...*models.Notification) (*models.GiftOrder, error) {
	order, err := s.settle(ctx, id, map[string]any{
		"status":       types.ORDER_CONFIRMED,
		"confirmed_at": at,
	}, func(line types.OrderLine) map[string]any {
		return map[string]any{
			"reserved":   gorm.Expr("GREATEST(reserved - ?, 0)", line.Quantity),
			"sold":       gorm.Expr("sold + ?", line.Quantity),
			"updated_at": time.Now(),
		}
	}, notifications)
	if err != nil {
		return nil, err
	}
	order.Status = types.ORDER_CONFIRMED
	order.ConfirmedAt = &at
	return order, nil
}

func (s *GormStore) RejectOrder(ctx context.Context, id uuid.UUID, reason string, notifications ...*models.Notification) (*models.GiftOrder, error) {
	order, err := s.settle(ctx, id, map[string]any{
		"status": types.ORDER_CANCELLED,
		"notes":  reason,
	}, func(line types.OrderLine) map[string]any {
		return map[string]any{
			"reserved":   gorm.Expr("GREATEST(reserved - ?, 0)", line.Quantity),
			"updated_at": time.Now(),
		}
	}, notifications)
	if err != nil {
		return nil, err
	}
	order.Status = types.ORDER_CANCELLED
	order.Notes = &reason
	return order, nil
}

func (s *GormStore) CreateRSVP(ctx context.Context, entry *models.RSVP, notify func(total int64) []*models.Notification) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RSVP
		if res := tx.Where("email = ?", entry.Email).Limit(1).Find(&existing); res.Error != nil {
			return res.Error
		} else if res.RowsAffected > 0 {
			return &types.DuplicateEntryError{Field: "email"}
		}
		if entry.Phone != nil {
			if res := tx.Where("phone = ?", *entry.Phone).Limit(1).Find(&existing); res.Error != nil {
				return res.Error
			} else if res.RowsAffected > 0 {
				return &types.DuplicateEntryError{Field: "phone"}
			}
		}
		if err := tx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &types.DuplicateEntryError{Field: "email or phone"}
			}
			return err
		}
		if notify == nil {
			return nil
		}
		var total int64
		if err := tx.Model(&models.RSVP{}).Where("confirmed = ?", true).Count(&total).Error; err != nil {
			return err
		}
		for _, n := range notify(total) {
			n.SourceType, n.SourceID = "rsvp", entry.ID.String()
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) ListRSVPs(ctx context.Context, confirmedOnly bool) ([]models.RSVP, error) {
	var entries []models.RSVP
	q := s.db.WithContext(ctx).Scopes(scopes.Newest)
	if confirmedOnly {
		q = q.Where("confirmed = ?", true)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (s *GormStore) CountRSVPs(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.RSVP{}).Where("confirmed = ?", true).Count(&total).Error
	return total, err
}

func (s *GormStore) CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *GormStore) GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	if err := s.db.WithContext(ctx).Scopes(scopes.WithID(id)).First(&item).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *GormStore) ListGalleryItems(ctx context.Context, category string, approvedOnly bool) ([]models.GalleryItem, error) {
	var items []models.GalleryItem
	q := s.db.WithContext(ctx).Scopes(scopes.WithCategory(category), scopes.Newest)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	err := q.Find(&items).Error
	return items, err
}

func (s *GormStore) DeleteGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scopes.WithID(id)).First(&item).Error; err != nil {
			return notFound(err)
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) SetGalleryApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scopes.WithID(id)).First(&item).Error; err != nil {
			return notFound(err)
		}
		return tx.Model(&item).Update("approved", approved).Error
	})
	if err != nil {
		return nil, err
	}
	item.Approved = approved
	return &item, nil
}

func (s *GormStore) EnqueueNotifications(ctx context.Context, notifications ...*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, n := range notifications {
			if err := tx.Create(n).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) DueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", types.NOTIFICATION_PENDING, now).
		Order("next_attempt_at asc").
		Limit(limit).
		Find(&notifications).
		Error
	return notifications, err
}

func (s *GormStore) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Scopes(scopes.WithID(id)).
		Updates(map[string]any{
			"status":   types.NOTIFICATION_SENT,
			"sent_at":  at,
			"attempts": gorm.Expr("attempts + 1"),
		}).
		Error
}

func (s *GormStore) MarkNotificationFailed(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string, dead bool) error {
	status := types.NOTIFICATION_PENDING
	if dead {
		status = types.NOTIFICATION_FAILED
	}
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Scopes(scopes.WithID(id)).
		Updates(map[string]any{
			"status":          status,
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      lastErr,
		}).
		Error
}
