package repository

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
	"wedding/src/models"
	"wedding/src/types"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process. A single lock serialises writes,
// so it gives the same all-or-nothing guarantees as GormStore.
type MemoryStore struct {
	mu            sync.RWMutex
	gifts         map[uuid.UUID]models.Gift
	orders        map[uuid.UUID]models.GiftOrder
	rsvps         map[uuid.UUID]models.RSVP
	gallery       map[uuid.UUID]models.GalleryItem
	notifications map[uuid.UUID]models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		gifts:         map[uuid.UUID]models.Gift{},
		orders:        map[uuid.UUID]models.GiftOrder{},
		rsvps:         map[uuid.UUID]models.RSVP{},
		gallery:       map[uuid.UUID]models.GalleryItem{},
		notifications: map[uuid.UUID]models.Notification{},
	}
}

func stamp(ts *types.Timestamps) {
	now := time.Now()
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

func (s *MemoryStore) ListGifts(ctx context.Context, category string) ([]models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gifts := []models.Gift{}
	for _, g := range s.gifts {
		if category != "" && g.Category != category {
			continue
		}
		gifts = append(gifts, g)
	}
	sort.Slice(gifts, func(i, j int) bool {
		if gifts[i].Category != gifts[j].Category {
			return gifts[i].Category < gifts[j].Category
		}
		return gifts[i].Name < gifts[j].Name
	})
	return gifts, nil
}

func (s *MemoryStore) GetGift(ctx context.Context, id uuid.UUID) (*models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gifts[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &g, nil
}

func (s *MemoryStore) GetGifts(ctx context.Context, ids []uuid.UUID) ([]models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gifts := []models.Gift{}
	for _, id := range ids {
		if g, ok := s.gifts[id]; ok {
			gifts = append(gifts, g)
		}
	}
	return gifts, nil
}

func (s *MemoryStore) SeedGifts(ctx context.Context, gifts []models.Gift) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.gifts) > 0 {
		return 0, nil
	}
	for _, g := range gifts {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		stamp(&g.Timestamps)
		s.gifts[g.ID] = g
	}
	return len(gifts), nil
}

func (s *MemoryStore) UpdateGiftInventory(ctx context.Context, id uuid.UUID, quantity, reserved, sold int) (*models.Gift, error) {
	if err := validInventory(quantity, reserved, sold); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gifts[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	g.Quantity, g.Reserved, g.Sold = quantity, reserved, sold
	stamp(&g.Timestamps)
	s.gifts[id] = g
	return &g, nil
}

func (s *MemoryStore) addNotifications(sourceType, sourceID string, notifications []*models.Notification) {
	for _, n := range notifications {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if n.Status == "" {
			n.Status = types.NOTIFICATION_PENDING
		}
		if n.NextAttemptAt.IsZero() {
			n.NextAttemptAt = time.Now()
		}
		if sourceType != "" {
			n.SourceType, n.SourceID = sourceType, sourceID
		}
		stamp(&n.Timestamps)
		s.notifications[n.ID] = *n
	}
}

// cloneOrder detaches the order lines from the caller's slice.
func cloneOrder(o models.GiftOrder) models.GiftOrder {
	o.Items = append(types.OrderLines(nil), o.Items...)
	return o
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.GiftOrder, notifications ...*models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	issues := []types.AvailabilityIssue{}
	for _, line := range order.Items {
		g, ok := s.gifts[line.GiftID]
		if !ok {
			issues = append(issues, types.AvailabilityIssue{GiftID: line.GiftID, Name: line.Name, Requested: line.Quantity})
			continue
		}
		if !g.CanReserve(line.Quantity) {
			issues = append(issues, types.AvailabilityIssue{GiftID: g.ID, Name: g.Name, Requested: line.Quantity, Available: g.Available()})
		}
	}
	if len(issues) > 0 {
		return &types.AvailabilityConflictError{Issues: issues}
	}
	for _, line := range order.Items {
		g := s.gifts[line.GiftID]
		g.Reserved += line.Quantity
		stamp(&g.Timestamps)
		s.gifts[g.ID] = g
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = types.ORDER_PENDING
	}
	stamp(&order.Timestamps)
	s.orders[order.ID] = cloneOrder(*order)
	s.addNotifications("gift_orders", order.ID.String(), notifications)
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.GiftOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *MemoryStore) GetOrderByNumber(ctx context.Context, number string) (*models.GiftOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.OrderNumber == number {
			o = cloneOrder(o)
			return &o, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *MemoryStore) ListOrders(ctx context.Context, status string) ([]models.GiftOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := []models.GiftOrder{}
	for _, o := range s.orders {
		if status != "" && string(o.Status) != status {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *MemoryStore) settle(id uuid.UUID, apply func(o *models.GiftOrder), move func(g *models.Gift, qty int), notifications []*models.Notification) (*models.GiftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	if err := pendingOrError(o.Status); err != nil {
		return nil, err
	}
	apply(&o)
	stamp(&o.Timestamps)
	s.orders[id] = o
	for _, line := range o.Items {
		g, ok := s.gifts[line.GiftID]
		if !ok {
			log.Printf("Gift [%s] referenced by order %s no longer exists\n", line.GiftID, o.OrderNumber)
			continue
		}
		move(&g, line.Quantity)
		stamp(&g.Timestamps)
		s.gifts[g.ID] = g
	}
	s.addNotifications("gift_orders", o.ID.String(), notifications)
	o = cloneOrder(o)
	return &o, nil
}

func (s *MemoryStore) ConfirmOrder(ctx context.Context, id uuid.UUID, at time.Time, notifications ...*models.Notification) (*models.GiftOrder, error) {
	return s.settle(id, func(o *models.GiftOrder) {
		o.Status = types.ORDER_CONFIRMED
		o.ConfirmedAt = &at
	}, func(g *models.Gift, qty int) {
		g.Reserved = floorZero(g.Reserved - qty)
		g.Sold += qty
	}, notifications)
}

func (s *MemoryStore) RejectOrder(ctx context.Context, id uuid.UUID, reason string, notifications ...*models.Notification) (*models.GiftOrder, error) {
	return s.settle(id, func(o *models.GiftOrder) {
		o.Status = types.ORDER_CANCELLED
		o.Notes = &reason
	}, func(g *models.Gift, qty int) {
		g.Reserved = floorZero(g.Reserved - qty)
	}, notifications)
}

func (s *MemoryStore) CreateRSVP(ctx context.Context, entry *models.RSVP, notify func(total int64) []*models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rsvps {
		if r.Email == entry.Email {
			return &types.DuplicateEntryError{Field: "email"}
		}
		if entry.Phone != nil && r.Phone != nil && *r.Phone == *entry.Phone {
			return &types.DuplicateEntryError{Field: "phone"}
		}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	stamp(&entry.Timestamps)
	s.rsvps[entry.ID] = *entry
	if notify == nil {
		return nil
	}
	var total int64
	for _, r := range s.rsvps {
		if r.Confirmed {
			total++
		}
	}
	s.addNotifications("rsvp", entry.ID.String(), notify(total))
	return nil
}

func (s *MemoryStore) ListRSVPs(ctx context.Context, confirmedOnly bool) ([]models.RSVP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := []models.RSVP{}
	for _, r := range s.rsvps {
		if confirmedOnly && !r.Confirmed {
			continue
		}
		entries = append(entries, r)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *MemoryStore) CountRSVPs(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, r := range s.rsvps {
		if r.Confirmed {
			total++
		}
	}
	return total, nil
}

func (s *MemoryStore) CreateGalleryItem(ctx context.Context, item *models.GalleryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	stamp(&item.Timestamps)
	s.gallery[item.ID] = *item
	return nil
}

func (s *MemoryStore) GetGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.gallery[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &item, nil
}

func (s *MemoryStore) ListGalleryItems(ctx context.Context, category string, approvedOnly bool) ([]models.GalleryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []models.GalleryItem{}
	for _, item := range s.gallery {
		if category != "" && item.Category != category {
			continue
		}
		if approvedOnly && !item.Approved {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *MemoryStore) DeleteGalleryItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.gallery[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	delete(s.gallery, id)
	return &item, nil
}

func (s *MemoryStore) SetGalleryApproval(ctx context.Context, id uuid.UUID, approved bool) (*models.GalleryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.gallery[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	item.Approved = approved
	stamp(&item.Timestamps)
	s.gallery[id] = item
	return &item, nil
}

func (s *MemoryStore) EnqueueNotifications(ctx context.Context, notifications ...*models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addNotifications("", "", notifications)
	return nil
}

func (s *MemoryStore) DueNotifications(ctx context.Context, now time.Time, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	due := []models.Notification{}
	for _, n := range s.notifications {
		if n.Status == types.NOTIFICATION_PENDING && !n.NextAttemptAt.After(now) {
			due = append(due, n)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].NextAttemptAt.Before(due[j].NextAttemptAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *MemoryStore) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return types.ErrNotFound
	}
	n.Status = types.NOTIFICATION_SENT
	n.SentAt = &at
	n.Attempts++
	s.notifications[id] = n
	return nil
}

func (s *MemoryStore) MarkNotificationFailed(ctx context.Context, id uuid.UUID, attempts int, next time.Time, lastErr string, dead bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return types.ErrNotFound
	}
	n.Attempts = attempts
	n.NextAttemptAt = next
	n.LastError = &lastErr
	n.Status = types.NOTIFICATION_PENDING
	if dead {
		n.Status = types.NOTIFICATION_FAILED
	}
	s.notifications[id] = n
	return nil
}

// Notifications returns every outbox row, for inspection in tests and local runs.
func (s *MemoryStore) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		all = append(all, n)
	}
	return all
}
