package utils

import (
	"context"
	"wedding/src/lib"
	"wedding/src/models"
	"wedding/src/repository"

	"github.com/google/uuid"
)

func catalogField(category string) string {
	if category == "" {
		return "all"
	}
	return category
}

// ListGifts returns the catalog sorted by category then name, served from
// redis when a fresh copy is cached.
func ListGifts(ctx context.Context, category string) ([]models.GiftView, error) {
	field := catalogField(category)
	var cached []models.GiftView
	if lib.CacheGetField(ctx, lib.GIFT_CATALOG_KEY, field, &cached) {
		return cached, nil
	}
	gifts, err := repository.GetStore().ListGifts(ctx, category)
	if err != nil {
		return nil, err
	}
	views := make([]models.GiftView, 0, len(gifts))
	for _, g := range gifts {
		views = append(views, g.View())
	}
	lib.CacheSetField(ctx, lib.GIFT_CATALOG_KEY, field, views, lib.GIFT_CATALOG_TTL)
	return views, nil
}

func GetGift(ctx context.Context, id uuid.UUID) (*models.GiftView, error) {
	g, err := repository.GetStore().GetGift(ctx, id)
	if err != nil {
		return nil, err
	}
	v := g.View()
	return &v, nil
}

// UpdateGiftInventory overwrites the counters of a gift, for manual
// reconciliation by the couple.
func UpdateGiftInventory(ctx context.Context, id uuid.UUID, quantity, reserved, sold int) (*models.GiftView, error) {
	g, err := repository.GetStore().UpdateGiftInventory(ctx, id, quantity, reserved, sold)
	if err != nil {
		return nil, err
	}
	InvalidateGiftCatalog(ctx)
	v := g.View()
	return &v, nil
}

func InvalidateGiftCatalog(ctx context.Context) {
	lib.CacheInvalidate(ctx, lib.GIFT_CATALOG_KEY)
}
