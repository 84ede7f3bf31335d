package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"wedding/src/models"
	"wedding/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, gifts ...models.Gift) (*MemoryStore, []models.Gift) {
	t.Helper()
	s := NewMemoryStore()
	for i := range gifts {
		gifts[i].ID = uuid.New()
	}
	n, err := s.SeedGifts(context.Background(), gifts)
	require.NoError(t, err)
	require.Equal(t, len(gifts), n)
	return s, gifts
}

func orderFor(lines ...types.OrderLine) *models.GiftOrder {
	return &models.GiftOrder{
		OrderNumber: "WED-" + uuid.NewString()[:8],
		BuyerName:   "Ana",
		BuyerEmail:  "ana@example.com",
		Items:       lines,
		Total:       types.OrderLines(lines).Total(),
		Status:      types.ORDER_PENDING,
	}
}

func TestMemoryCreateOrderReserves(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t,
		models.Gift{Name: "Panela", Category: "cozinha", Price: 100, Quantity: 3},
		models.Gift{Name: "Toalha", Category: "cama-e-banho", Price: 50, Quantity: 2},
	)
	a, b := gifts[0], gifts[1]

	order := orderFor(
		types.OrderLine{GiftID: a.ID, Name: a.Name, Price: a.Price, Quantity: 2},
		types.OrderLine{GiftID: b.ID, Name: b.Name, Price: b.Price, Quantity: 1},
	)
	notice := &models.Notification{Channel: types.CHANNEL_TELEGRAM, Body: "novo pedido"}
	require.NoError(t, s.CreateOrder(ctx, order, notice))

	ga, _ := s.GetGift(ctx, a.ID)
	gb, _ := s.GetGift(ctx, b.ID)
	assert.Equal(t, 2, ga.Reserved)
	assert.Equal(t, 1, gb.Reserved)
	assert.Equal(t, 250.0, order.Total)

	notes := s.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, order.ID.String(), notes[0].SourceID)
	assert.Equal(t, types.NOTIFICATION_PENDING, notes[0].Status)
}

func TestMemoryOrderLinesAreSnapshotted(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t, models.Gift{Name: "Panela", Category: "cozinha", Price: 100, Quantity: 3})
	g := gifts[0]

	order := orderFor(types.OrderLine{GiftID: g.ID, Name: g.Name, Price: g.Price, Quantity: 1})
	require.NoError(t, s.CreateOrder(ctx, order))

	order.Items[0].Quantity = 3
	order.Items[0].Price = 1

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
	assert.Equal(t, 100.0, stored.Items[0].Price)

	stored.Items[0].Quantity = 2
	again, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	confirmed, err := s.ConfirmOrder(ctx, order.ID, time.Now())
	require.NoError(t, err)
	ga, _ := s.GetGift(ctx, g.ID)
	assert.Equal(t, 1, ga.Sold)
	assert.Equal(t, 1, confirmed.Items[0].Quantity)
}

func TestMemoryCreateOrderAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t,
		models.Gift{Name: "Panela", Price: 100, Quantity: 3},
		models.Gift{Name: "Toalha", Price: 50, Quantity: 1, Sold: 1},
	)
	a, b := gifts[0], gifts[1]

	order := orderFor(
		types.OrderLine{GiftID: a.ID, Name: a.Name, Price: a.Price, Quantity: 2},
		types.OrderLine{GiftID: b.ID, Name: b.Name, Price: b.Price, Quantity: 1},
	)
	err := s.CreateOrder(ctx, order)

	var conflict *types.AvailabilityConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Issues, 1)
	assert.Equal(t, b.ID, conflict.Issues[0].GiftID)
	assert.Equal(t, 1, conflict.Issues[0].Requested)
	assert.Equal(t, 0, conflict.Issues[0].Available)

	ga, _ := s.GetGift(ctx, a.ID)
	assert.Equal(t, 0, ga.Reserved)
	orders, _ := s.ListOrders(ctx, "")
	assert.Empty(t, orders)
}

func TestMemoryConcurrentCheckoutLastUnit(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t, models.Gift{Name: "Liquidificador", Price: 300, Quantity: 1})
	x := gifts[0]

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateOrder(ctx, orderFor(types.OrderLine{GiftID: x.ID, Name: x.Name, Price: x.Price, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		var conflict *types.AvailabilityConflictError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &conflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)
	g, _ := s.GetGift(ctx, x.ID)
	assert.Equal(t, 1, g.Reserved)
}

func TestMemorySettlement(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t,
		models.Gift{Name: "Panela", Price: 100, Quantity: 3},
		models.Gift{Name: "Toalha", Price: 50, Quantity: 2},
	)
	a, b := gifts[0], gifts[1]
	lines := []types.OrderLine{
		{GiftID: a.ID, Name: a.Name, Price: a.Price, Quantity: 2},
		{GiftID: b.ID, Name: b.Name, Price: b.Price, Quantity: 1},
	}

	t.Run("confirm moves reserved to sold", func(t *testing.T) {
		order := orderFor(lines...)
		require.NoError(t, s.CreateOrder(ctx, order))
		at := time.Now()
		confirmed, err := s.ConfirmOrder(ctx, order.ID, at)
		require.NoError(t, err)
		assert.Equal(t, types.ORDER_CONFIRMED, confirmed.Status)
		assert.Equal(t, at, *confirmed.ConfirmedAt)

		ga, _ := s.GetGift(ctx, a.ID)
		assert.Equal(t, 0, ga.Reserved)
		assert.Equal(t, 2, ga.Sold)

		_, err = s.ConfirmOrder(ctx, order.ID, time.Now())
		assert.ErrorIs(t, err, types.ErrAlreadyConfirmed)
		_, err = s.RejectOrder(ctx, order.ID, "late")
		assert.ErrorIs(t, err, types.ErrAlreadyConfirmed)

		ga, _ = s.GetGift(ctx, a.ID)
		assert.Equal(t, 0, ga.Reserved)
		assert.Equal(t, 2, ga.Sold)
	})

	t.Run("reject releases reservation", func(t *testing.T) {
		order := orderFor(lines[1])
		require.NoError(t, s.CreateOrder(ctx, order))
		gb, _ := s.GetGift(ctx, b.ID)
		assert.Equal(t, 1, gb.Reserved)

		rejected, err := s.RejectOrder(ctx, order.ID, types.DEFAULT_REJECT_REASON)
		require.NoError(t, err)
		assert.Equal(t, types.ORDER_CANCELLED, rejected.Status)
		assert.Equal(t, types.DEFAULT_REJECT_REASON, *rejected.Notes)

		gb, _ = s.GetGift(ctx, b.ID)
		assert.Equal(t, 0, gb.Reserved)
		assert.Equal(t, 1, gb.Sold)

		_, err = s.RejectOrder(ctx, order.ID, "again")
		assert.ErrorIs(t, err, types.ErrAlreadyCancelled)
		_, err = s.ConfirmOrder(ctx, order.ID, time.Now())
		assert.ErrorIs(t, err, types.ErrAlreadyCancelled)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := s.ConfirmOrder(ctx, uuid.New(), time.Now())
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestMemoryReleaseFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t, models.Gift{Name: "Panela", Price: 100, Quantity: 3})
	a := gifts[0]
	order := orderFor(types.OrderLine{GiftID: a.ID, Name: a.Name, Price: a.Price, Quantity: 2})
	require.NoError(t, s.CreateOrder(ctx, order))

	_, err := s.UpdateGiftInventory(ctx, a.ID, 3, 1, 0)
	require.NoError(t, err)
	_, err = s.RejectOrder(ctx, order.ID, "")
	require.NoError(t, err)

	g, _ := s.GetGift(ctx, a.ID)
	assert.Equal(t, 0, g.Reserved)
}

func TestMemoryUpdateGiftInventory(t *testing.T) {
	ctx := context.Background()
	s, gifts := seedStore(t, models.Gift{Name: "Panela", Price: 100, Quantity: 3})

	_, err := s.UpdateGiftInventory(ctx, gifts[0].ID, 2, 2, 1)
	assert.ErrorIs(t, err, types.ErrInvalidInventory)
	_, err = s.UpdateGiftInventory(ctx, uuid.New(), 2, 0, 0)
	assert.ErrorIs(t, err, types.ErrNotFound)

	g, err := s.UpdateGiftInventory(ctx, gifts[0].ID, 5, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Available())
}

func TestMemoryRSVPUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	phone := "5562999990000"
	notify := func(total int64) []*models.Notification {
		return []*models.Notification{{Channel: types.CHANNEL_WHATSAPP, Payload: types.JSONB{"total": total}}}
	}

	require.NoError(t, s.CreateRSVP(ctx, &models.RSVP{Name: "Ana", Email: "ana@example.com", Phone: &phone, Confirmed: true}, notify))

	err := s.CreateRSVP(ctx, &models.RSVP{Name: "Ana 2", Email: "ana@example.com", Confirmed: true}, notify)
	var dup *types.DuplicateEntryError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
	assert.ErrorIs(t, err, types.ErrDuplicateEntry)

	err = s.CreateRSVP(ctx, &models.RSVP{Name: "Bia", Email: "bia@example.com", Phone: &phone, Confirmed: true}, notify)
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "phone", dup.Field)

	require.NoError(t, s.CreateRSVP(ctx, &models.RSVP{Name: "Caio", Email: "caio@example.com", Confirmed: true}, notify))

	total, _ := s.CountRSVPs(ctx)
	assert.Equal(t, int64(2), total)
	entries, _ := s.ListRSVPs(ctx, true)
	require.Len(t, entries, 2)
	assert.Equal(t, "Caio", entries[0].Name)
	assert.Len(t, s.Notifications(), 2)
}

func TestMemoryNotificationsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	later := &models.Notification{Channel: types.CHANNEL_EMAIL, NextAttemptAt: time.Now().Add(time.Hour)}
	now := &models.Notification{Channel: types.CHANNEL_TELEGRAM}
	require.NoError(t, s.EnqueueNotifications(ctx, later, now))

	due, err := s.DueNotifications(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, now.ID, due[0].ID)

	require.NoError(t, s.MarkNotificationFailed(ctx, now.ID, 1, time.Now().Add(-time.Second), "boom", false))
	due, _ = s.DueNotifications(ctx, time.Now(), 10)
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].Attempts)

	require.NoError(t, s.MarkNotificationSent(ctx, now.ID, time.Now()))
	due, _ = s.DueNotifications(ctx, time.Now(), 10)
	assert.Empty(t, due)
}

func TestMemoryGallery(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first := &models.GalleryItem{Category: "party", StoragePath: "party/a.jpg", Approved: true}
	second := &models.GalleryItem{Category: "ceremony", StoragePath: "ceremony/b.jpg", Approved: false}
	require.NoError(t, s.CreateGalleryItem(ctx, first))
	require.NoError(t, s.CreateGalleryItem(ctx, second))

	items, _ := s.ListGalleryItems(ctx, "", true)
	assert.Len(t, items, 1)
	items, _ = s.ListGalleryItems(ctx, "ceremony", false)
	assert.Len(t, items, 1)

	updated, err := s.SetGalleryApproval(ctx, second.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Approved)

	deleted, err := s.DeleteGalleryItem(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "party/a.jpg", deleted.StoragePath)
	_, err = s.GetGalleryItem(ctx, first.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
