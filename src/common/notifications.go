package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"wedding/src/config"
	"wedding/src/lib"
	"wedding/src/lib/mailer"
	"wedding/src/models"
	"wedding/src/repository"
	"wedding/src/types"

	"go.opentelemetry.io/otel/attribute"
)

// Sender delivers one outbox row over its channel.
type Sender interface {
	Send(ctx context.Context, n *models.Notification) error
}

type SenderFunc func(ctx context.Context, n *models.Notification) error

func (f SenderFunc) Send(ctx context.Context, n *models.Notification) error {
	return f(ctx, n)
}

var ErrNoSender = errors.New("no sender registered for channel")

var (
	senders = map[types.NotificationChannel]Sender{
		types.CHANNEL_TELEGRAM: SenderFunc(sendTelegram),
		types.CHANNEL_EMAIL:    SenderFunc(sendEmail),
		types.CHANNEL_WEBHOOK:  SenderFunc(sendWebhook),
		types.CHANNEL_WHATSAPP: SenderFunc(sendWhatsApp),
	}
	sendersMu sync.RWMutex
	// dispatching guards against overlapping runs of the outbox job
	dispatching sync.Mutex
)

func RegisterSender(ch types.NotificationChannel, s Sender) {
	sendersMu.Lock()
	defer sendersMu.Unlock()
	senders[ch] = s
}

func getSender(ch types.NotificationChannel) (Sender, bool) {
	sendersMu.RLock()
	defer sendersMu.RUnlock()
	s, ok := senders[ch]
	return s, ok
}

func sendTelegram(ctx context.Context, n *models.Notification) error {
	c := config.Get()
	return lib.SendTelegramMessage(ctx, c.TelegramBotToken, c.TelegramChatID, n.Body)
}

func sendEmail(ctx context.Context, n *models.Notification) error {
	to, _ := n.Payload["to"].(string)
	if to == "" {
		to = config.Get().AdminEmail
	}
	return mailer.NewMailerMessage(ctx, &lib.SendMailInput{
		To:      []string{to},
		Subject: n.Subject,
		Body:    n.Body,
		Html:    true,
	})
}

func sendWebhook(ctx context.Context, n *models.Notification) error {
	payload := map[string]any{
		"id":      n.ID.String(),
		"subject": n.Subject,
		"text":    n.Body,
	}
	for k, v := range n.Payload {
		payload[k] = v
	}
	return lib.PostWebhook(ctx, config.Get().NotifyWebhookURL, payload)
}

func sendWhatsApp(ctx context.Context, n *models.Notification) error {
	c := config.Get()
	return lib.SendWhatsAppMessage(ctx, lib.WhatsAppMessage{
		AccountSID: c.TwilioAccountSID,
		AuthToken:  c.TwilioAuthToken,
		From:       c.TwilioFrom,
		To:         c.TwilioTo,
		Body:       n.Body,
	})
}

// RetryDelay grows quadratically with the attempt number.
func RetryDelay(attempts int) time.Duration {
	return time.Duration(attempts*attempts) * config.Get().OutboxBackoff
}

// DispatchNotifications sends the due outbox rows once and returns how many
// were delivered.
func DispatchNotifications(ctx context.Context) (int, error) {
	if !dispatching.TryLock() {
		return 0, nil
	}
	defer dispatching.Unlock()

	c := config.Get()
	store := repository.GetStore()
	due, err := store.DueNotifications(ctx, time.Now(), c.OutboxBatchSize)
	if err != nil {
		log.Printf("[outbox] Error loading due notifications: %s\n", err.Error())
		return 0, err
	}
	sent := 0
	for i := range due {
		n := &due[i]
		attrs := attribute.String("channel", string(n.Channel))
		err := deliver(ctx, n)
		if err == nil {
			if err := store.MarkNotificationSent(ctx, n.ID, time.Now()); err != nil {
				log.Printf("[outbox] Error marking %s sent: %s\n", n.ID, err.Error())
				continue
			}
			sent++
			lib.Count(ctx, lib.METRIC_NOTIFICATIONS_SENT, 1, attrs)
			continue
		}

		attempts := n.Attempts + 1
		dead := attempts >= c.OutboxMaxAttempts
		next := time.Now().Add(RetryDelay(attempts))
		log.Printf("[outbox] %s via %s failed (attempt %d/%d): %s\n", n.ID, n.Channel, attempts, c.OutboxMaxAttempts, err.Error())
		if merr := store.MarkNotificationFailed(ctx, n.ID, attempts, next, err.Error(), dead); merr != nil {
			log.Printf("[outbox] Error rescheduling %s: %s\n", n.ID, merr.Error())
		}
		if dead {
			lib.Count(ctx, lib.METRIC_NOTIFICATIONS_FAILED, 1, attrs)
		}
	}
	if len(due) > 0 {
		log.Printf("[outbox] Delivered %d of %d notifications\n", sent, len(due))
	}
	return sent, nil
}

func deliver(ctx context.Context, n *models.Notification) error {
	s, ok := getSender(n.Channel)
	if !ok {
		return fmt.Errorf("%w %s", ErrNoSender, n.Channel)
	}
	ctx, span := lib.Tracer().Start(ctx, "outbox.deliver")
	defer span.End()
	span.SetAttributes(attribute.String("channel", string(n.Channel)))
	return s.Send(ctx, n)
}
