package repository

import (
	"context"
	"log"
	"sync"
	"time"
	"wedding/src/config"
	"wedding/src/db"
	"wedding/src/models"
	"wedding/src/types"

	"github.com/google/uuid"
)

// Store is the persistence boundary for gifts, orders, RSVPs, gallery items
// and the notification outbox. Implementations must apply CreateOrder,
// ConfirmOrder and RejectOrder atomically together with the notifications
// passed to them.
type Store interface {
	ListGifts(ctx context.Context, category string) ([]models.Gift, error)
	GetGift(ctx context.Context, id uuid.UUID) (*models.Gift, error)
	GetGifts(ctx context.Context, ids []uuid.UUID) ([]models.Gift, error)
	SeedGifts(ctx context.Context, gifts []models.Gift) (int, error)
	UpdateGiftInventory(ctx context.Context, id uuid.UUID, quantity, reserved, sold int) (*models.Gift, error)

	CreateOrder(ctx context.Context, order *models.GiftOrder, notifications ...*models.Notification) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.GiftOrder, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.GiftOrder, error)
	ListOrders(ctx context.Context, status string) ([]models.GiftOrder, error)
	ConfirmOrder(ctx context.Context, id uuid.UUID, at time.Time, notifications ...*models.Notification) (*models.GiftOrder, error)
	RejectOrder(ctx context.Context, id uuid.UUID, reason string, notifications ...*models.Notification) (*models.GiftOrder, error)

	CreateRSVP(ctx context.Context, entry *models.RSVP, notify func(total int64) []*models.Notification) error
	ListRSVPs(ctx context.Context, confirmedOnly bool) ([]models.RSVP, error)
	CountRSVPs(ctx context.Context) (int64, error)

	CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error
	GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	ListGalleryItems(ctx context.Context, category string, approvedOnly bool) ([]models.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	SetGalleryApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.GalleryItem, error)

	EnqueueNotifications(ctx context.Context, notifications ...*models.Notification) error
	DueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Notification, error)
	MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkNotificationFailed(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string, dead bool) error
}

var (
	store Store
	mu    sync.Mutex
)

// GetStore returns the process-wide store, picking the driver from config.
func GetStore() Store {
	mu.Lock()
	defer mu.Unlock()
	if store != nil {
		return store
	}
	switch config.Get().StoreDriver {
	case "memory":
		log.Println("Using in-memory store")
		store = NewMemoryStore()
	default:
		store = NewGormStore(db.GetDb())
	}
	return store
}

// NewStore replaces the process-wide store.
func NewStore(s Store) Store {
	mu.Lock()
	defer mu.Unlock()
	store = s
	return store
}

func validInventory(quantity, reserved, sold int) error {
	if quantity < 0 || reserved < 0 || sold < 0 || reserved+sold > quantity {
		return types.ErrInvalidInventory
	}
	return nil
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
