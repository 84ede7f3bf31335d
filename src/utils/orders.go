package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"wedding/src/config"
	"wedding/src/lib"
	"wedding/src/lib/pix"
	"wedding/src/models"
	"wedding/src/repository"
	"wedding/src/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CheckAvailability compares each cart line against the current counters.
// Gifts that no longer exist are reported with nothing available.
func CheckAvailability(ctx context.Context, items []types.CartItem) ([]types.AvailabilityIssue, map[uuid.UUID]models.Gift, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.GiftID)
	}
	gifts, err := repository.GetStore().GetGifts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]models.Gift, len(gifts))
	for _, g := range gifts {
		byID[g.ID] = g
	}
	issues := []types.AvailabilityIssue{}
	for _, item := range items {
		g, ok := byID[item.GiftID]
		if !ok {
			issues = append(issues, types.AvailabilityIssue{GiftID: item.GiftID, Name: item.GiftID.String(), Requested: item.Quantity, Available: 0})
			continue
		}
		if !g.CanReserve(item.Quantity) {
			issues = append(issues, types.AvailabilityIssue{GiftID: g.ID, Name: g.Name, Requested: item.Quantity, Available: g.Available()})
		}
	}
	return issues, byID, nil
}

func pixPayloadFor(orderNumber string, total float64) pix.Payload {
	c := config.Get()
	return pix.Payload{
		Key:          c.PixKey,
		MerchantName: c.PixMerchantName,
		MerchantCity: c.PixMerchantCity,
		Amount:       total,
		Info:         "Pedido " + orderNumber,
		TxID:         orderNumber,
	}
}

// CreateOrder reserves the cart and records a pending order with its PIX
// charge. Either every line is reserved or none is.
func CreateOrder(ctx context.Context, params *types.CreateOrderRequestBody) (*types.CreateOrderResponse, error) {
	ctx, span := lib.Tracer().Start(ctx, "CreateOrder")
	defer span.End()

	items := MergeCart(params.Items)
	issues, gifts, err := CheckAvailability(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		lib.Count(ctx, lib.METRIC_AVAILABILITY_CONFLICTS, 1, attribute.String("stage", "precheck"))
		return nil, &types.AvailabilityConflictError{Issues: issues}
	}

	lines := make(types.OrderLines, 0, len(items))
	for _, item := range items {
		g := gifts[item.GiftID]
		lines = append(lines, types.OrderLine{GiftID: g.ID, Name: g.Name, Price: g.Price, Quantity: item.Quantity})
	}
	total := lines.Total()
	number := GenerateOrderNumber(time.Now())

	pixCode, err := pix.Encode(pixPayloadFor(number, total))
	if err != nil {
		log.Printf("[pix] Error encoding payload for %s: %s\n", number, err.Error())
		return nil, err
	}
	qr, err := lib.GenerateQRCodeDataURL(pixCode)
	if err != nil {
		return nil, err
	}

	order := &models.GiftOrder{
		ID:          uuid.New(),
		OrderNumber: number,
		BuyerName:   strings.TrimSpace(params.BuyerName),
		BuyerEmail:  NormalizeEmail(params.BuyerEmail),
		BuyerPhone:  optional(params.BuyerPhone),
		Items:       lines,
		Total:       total,
		Status:      types.ORDER_PENDING,
		PixCode:     pixCode,
	}
	notifications := BuildNotifications(OrderCreatedMessage(order))
	if err := repository.GetStore().CreateOrder(ctx, order, notifications...); err != nil {
		var conflict *types.AvailabilityConflictError
		if errors.As(err, &conflict) {
			lib.Count(ctx, lib.METRIC_AVAILABILITY_CONFLICTS, 1, attribute.String("stage", "reserve"))
		}
		return nil, err
	}
	InvalidateGiftCatalog(ctx)
	lib.Count(ctx, lib.METRIC_ORDERS_CREATED, 1)
	log.Printf("Order %s created: %d lines, total %.2f\n", order.OrderNumber, len(lines), total)

	return &types.CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       total,
		PixCode:     pixCode,
		QRCode:      qr,
	}, nil
}

func settlementNotifications(order *models.GiftOrder) []*models.Notification {
	channels := []types.NotificationChannel{}
	for _, ch := range EnabledChannels() {
		if ch == types.CHANNEL_EMAIL || ch == types.CHANNEL_WEBHOOK {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		return nil
	}
	return BuildNotifications(OrderSettledMessage(order), channels...)
}

// ConfirmOrder marks a pending order paid and moves its lines from reserved
// to sold.
func ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.GiftOrder, error) {
	store := repository.GetStore()
	current, err := store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	preview := *current
	preview.Status = types.ORDER_CONFIRMED
	order, err := store.ConfirmOrder(ctx, id, now, settlementNotifications(&preview)...)
	if err != nil {
		return nil, err
	}
	InvalidateGiftCatalog(ctx)
	lib.Count(ctx, lib.METRIC_ORDERS_CONFIRMED, 1)
	log.Printf("Order %s confirmed\n", order.OrderNumber)
	return order, nil
}

// RejectOrder cancels a pending order and releases its reservations.
func RejectOrder(ctx context.Context, id uuid.UUID, reason string) (*models.GiftOrder, error) {
	store := repository.GetStore()
	current, err := store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = types.DEFAULT_REJECT_REASON
	}
	preview := *current
	preview.Status = types.ORDER_CANCELLED
	preview.Notes = &reason
	order, err := store.RejectOrder(ctx, id, reason, settlementNotifications(&preview)...)
	if err != nil {
		return nil, err
	}
	InvalidateGiftCatalog(ctx)
	lib.Count(ctx, lib.METRIC_ORDERS_REJECTED, 1)
	log.Printf("Order %s cancelled: %s\n", order.OrderNumber, reason)
	return order, nil
}

func GetOrder(ctx context.Context, id uuid.UUID) (*models.GiftOrder, error) {
	return repository.GetStore().GetOrder(ctx, id)
}

func GetOrderByNumber(ctx context.Context, number string) (*models.GiftOrder, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("order %w", types.ErrNotFound)
	}
	return repository.GetStore().GetOrderByNumber(ctx, number)
}

func ListOrders(ctx context.Context, status string) ([]models.GiftOrder, error) {
	return repository.GetStore().ListOrders(ctx, status)
}
