package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

// OrderLine is the snapshot of a gift taken when the order was placed.
type OrderLine struct {
	GiftID   uuid.UUID `json:"giftId"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

func (l OrderLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

type OrderLines []OrderLine

func (a OrderLines) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *OrderLines) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a OrderLines) Total() float64 {
	var total float64
	for _, l := range a {
		total += l.Subtotal()
	}
	return total
}

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, errors.New("type assertion to []byte failed")
}

type OrderStatus string

const (
	ORDER_PENDING   OrderStatus = "pending"
	ORDER_CONFIRMED OrderStatus = "confirmed"
	ORDER_CANCELLED OrderStatus = "cancelled"
)

type NotificationStatus string

const (
	NOTIFICATION_PENDING NotificationStatus = "pending"
	NOTIFICATION_SENT    NotificationStatus = "sent"
	NOTIFICATION_FAILED  NotificationStatus = "failed"
)

type NotificationChannel string

const (
	CHANNEL_TELEGRAM NotificationChannel = "telegram"
	CHANNEL_EMAIL    NotificationChannel = "email"
	CHANNEL_WEBHOOK  NotificationChannel = "webhook"
	CHANNEL_WHATSAPP NotificationChannel = "whatsapp"
)

type GiftCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var GiftCategoryList = []GiftCategory{
	{ID: "cozinha", Name: "Cozinha", Icon: "🍳"},
	{ID: "limpeza", Name: "Limpeza", Icon: "🧹"},
	{ID: "cama-e-banho", Name: "Cama e Banho", Icon: "🛏️"},
	{ID: "para-a-vida-de-casados", Name: "Para a vida de casados", Icon: "💑"},
}

var GiftCategories = []string{
	"cozinha",
	"limpeza",
	"cama-e-banho",
	"para-a-vida-de-casados",
}

var GalleryCategories = []string{
	"ceremony",
	"reception",
	"party",
	"other",
}

const DEFAULT_UPLOADER = "Convidado"
const DEFAULT_REJECT_REASON = "Cancelled by admin"

type CartItem struct {
	GiftID   uuid.UUID `json:"giftId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1,max=100"`
}

type CreateOrderRequestBody struct {
	BuyerName  string     `json:"buyerName" binding:"required,notblank,max=120"`
	BuyerEmail string     `json:"buyerEmail" binding:"required,simpleemail"`
	BuyerPhone string     `json:"buyerPhone" binding:"omitempty,max=30"`
	Items      []CartItem `json:"items" binding:"required,min=1,dive"`
}

type RejectOrderRequestBody struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type OrderQueryFilters struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

type UpdateInventoryRequestBody struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
	Reserved *int `json:"reserved" binding:"required,min=0"`
	Sold     *int `json:"sold" binding:"required,min=0"`
}

type GiftQueryFilters struct {
	Category string `form:"category" binding:"omitempty,giftcategory"`
}

type CreateRSVPRequestBody struct {
	Name    string `json:"name" binding:"required,notblank,max=120"`
	Email   string `json:"email" binding:"required,max=254"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Message string `json:"message" binding:"omitempty,max=1000"`
}

type UploadGalleryRequestBody struct {
	Category   string `form:"category" binding:"required,gallerycategory"`
	UploadedBy string `form:"uploadedBy" binding:"omitempty,max=120"`
	Caption    string `form:"caption" binding:"omitempty,max=500"`
}

type GalleryQueryFilters struct {
	Category string `form:"category" binding:"omitempty,gallerycategory"`
}

type GalleryApprovalRequestBody struct {
	Approved *bool `json:"approved" binding:"required"`
}

type AdminLoginRequestBody struct {
	Password string `json:"password" binding:"required"`
}

type ContactRequestBody struct {
	Name    string `json:"name" binding:"required,notblank,max=120"`
	Email   string `json:"email" binding:"required,simpleemail"`
	Message string `json:"message" binding:"required,max=2000"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type CreateOrderResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Total       float64   `json:"total"`
	PixCode     string    `json:"pixCode"`
	QRCode      string    `json:"qrCode"`
}
