package utils

import (
	"strings"
	"testing"
	"time"
	"wedding/src/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	n := GenerateOrderNumber(now)
	assert.Regexp(t, `^WED-1700000000000-[0-9A-Z]{4}$`, n)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.False(t, IsValidEmail("ana@example"))
	assert.False(t, IsValidEmail("ana @example.com"))

	phone := NormalizePhone("+55 (62) 99999-0000")
	if assert.NotNil(t, phone) {
		assert.Equal(t, "5562999990000", *phone)
	}
	assert.Nil(t, NormalizePhone(" - "))
	assert.Nil(t, optional("   "))
}

func TestMergeCart(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	merged := MergeCart([]types.CartItem{
		{GiftID: a, Quantity: 1},
		{GiftID: b, Quantity: 2},
		{GiftID: a, Quantity: 3},
	})
	assert.Equal(t, []types.CartItem{{GiftID: a, Quantity: 4}, {GiftID: b, Quantity: 2}}, merged)
}

func TestGalleryObjectKey(t *testing.T) {
	now := time.UnixMilli(42)
	assert.Equal(t, "ceremony/42-sim-aceito.jpg", GalleryObjectKey("ceremony", "Sim, Aceito!.JPG", now))
	assert.Equal(t, "other/42-foto.png", GalleryObjectKey("other", "???.png", now))
	assert.True(t, strings.HasPrefix(GalleryObjectKey("party", "x", now), "party/42-x"))
}
