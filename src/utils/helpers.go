package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
	"wedding/src/config"
	"wedding/src/types"

	"github.com/google/uuid"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var nonDigits = regexp.MustCompile(`[^0-9]`)

func IsProd() bool {
	return config.Get().ApiEnv == "production"
}

// GenerateOrderNumber returns WED-<unix millis>-<4 upper-case base36 chars>.
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			suffix[i] = base36[now.UnixNano()%int64(len(base36))]
			continue
		}
		suffix[i] = base36[n.Int64()]
	}
	return fmt.Sprintf("WED-%d-%s", now.UnixMilli(), suffix)
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps digits only. An empty result means no phone.
func NormalizePhone(phone string) *string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return nil
	}
	return &digits
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// MergeCart folds repeated gift ids into one line, keeping first-seen order.
func MergeCart(items []types.CartItem) []types.CartItem {
	merged := make([]types.CartItem, 0, len(items))
	index := map[uuid.UUID]int{}
	for _, item := range items {
		if i, ok := index[item.GiftID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.GiftID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func FormatBRL(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
