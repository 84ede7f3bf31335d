package utils

import (
	"fmt"
	"html"
	"strings"
	"time"
	"wedding/src/config"
	"wedding/src/lib/mailer"
	"wedding/src/models"
	"wedding/src/types"
)

// Message is one event rendered for every outbound channel.
type Message struct {
	Event   string
	Subject string
	Text    string
	HTML    string
	To      string
	Data    types.JSONB
}

// EnabledChannels lists the channels with enough configuration to deliver.
func EnabledChannels() []types.NotificationChannel {
	c := config.Get()
	channels := []types.NotificationChannel{}
	if c.TelegramBotToken != "" && c.TelegramChatID != "" {
		channels = append(channels, types.CHANNEL_TELEGRAM)
	}
	if mailer.Enabled() {
		channels = append(channels, types.CHANNEL_EMAIL)
	}
	if c.NotifyWebhookURL != "" {
		channels = append(channels, types.CHANNEL_WEBHOOK)
	}
	if c.TwilioAccountSID != "" && c.TwilioTo != "" {
		channels = append(channels, types.CHANNEL_WHATSAPP)
	}
	return channels
}

// BuildNotifications renders m as one outbox row per enabled channel.
func BuildNotifications(m Message, channels ...types.NotificationChannel) []*models.Notification {
	if len(channels) == 0 {
		channels = EnabledChannels()
	}
	notifications := make([]*models.Notification, 0, len(channels))
	for _, ch := range channels {
		n := &models.Notification{
			Channel: ch,
			Subject: m.Subject,
			Status:  types.NOTIFICATION_PENDING,
			Payload: types.JSONB{"event": m.Event},
		}
		switch ch {
		case types.CHANNEL_TELEGRAM:
			n.Body = m.HTML
		case types.CHANNEL_EMAIL:
			n.Body = "<html><body>" + strings.ReplaceAll(m.HTML, "\n", "<br>") + "</body></html>"
			to := m.To
			if to == "" {
				to = config.Get().AdminEmail
			}
			n.Payload["to"] = to
		case types.CHANNEL_WHATSAPP:
			n.Body = m.Text
		case types.CHANNEL_WEBHOOK:
			n.Body = m.Text
			for k, v := range m.Data {
				n.Payload[k] = v
			}
		}
		notifications = append(notifications, n)
	}
	return notifications
}

func adminOrdersLink() string {
	return strings.TrimRight(config.Get().AppHost, "/") + "/admin/orders"
}

func OrderCreatedMessage(order *models.GiftOrder) Message {
	var text, markup strings.Builder
	e := html.EscapeString
	fmt.Fprintf(&markup, "🎁 <b>NOVO PEDIDO RECEBIDO!</b>\n\n📋 Pedido: <code>%s</code>\n\n", e(order.OrderNumber))
	fmt.Fprintf(&markup, "👤 <b>Comprador:</b>\nNome: %s\nEmail: %s\n", e(order.BuyerName), e(order.BuyerEmail))
	fmt.Fprintf(&text, "NOVO PEDIDO %s\n\nComprador: %s (%s)\n", order.OrderNumber, order.BuyerName, order.BuyerEmail)
	if order.BuyerPhone != nil {
		fmt.Fprintf(&markup, "Telefone: %s\n", e(*order.BuyerPhone))
		fmt.Fprintf(&text, "Telefone: %s\n", *order.BuyerPhone)
	}
	markup.WriteString("\n🎁 <b>Itens:</b>\n")
	text.WriteString("\nItens:\n")
	for _, l := range order.Items {
		fmt.Fprintf(&markup, "  • %dx %s - %s\n", l.Quantity, e(l.Name), FormatBRL(l.Price))
		fmt.Fprintf(&text, "  • %dx %s - %s\n", l.Quantity, l.Name, FormatBRL(l.Price))
	}
	fmt.Fprintf(&markup, "\n💰 <b>Total: %s</b>\n\n🔗 Acesse o admin para aprovar:\n%s", FormatBRL(order.Total), e(adminOrdersLink()))
	fmt.Fprintf(&text, "\nTotal: %s\n%s", FormatBRL(order.Total), adminOrdersLink())

	return Message{
		Event:   "order.created",
		Subject: fmt.Sprintf("🎁 Novo pedido #%s - %s", order.OrderNumber, FormatBRL(order.Total)),
		Text:    text.String(),
		HTML:    markup.String(),
		Data: types.JSONB{
			"orderId":     order.ID.String(),
			"orderNumber": order.OrderNumber,
			"buyerName":   order.BuyerName,
			"buyerEmail":  order.BuyerEmail,
			"total":       order.Total,
			"items":       order.Items,
		},
	}
}

// OrderSettledMessage thanks the buyer once the transfer is confirmed, or
// tells them the order was cancelled.
func OrderSettledMessage(order *models.GiftOrder) Message {
	e := html.EscapeString
	m := Message{
		To: order.BuyerEmail,
		Data: types.JSONB{
			"orderId":     order.ID.String(),
			"orderNumber": order.OrderNumber,
			"status":      string(order.Status),
		},
	}
	switch order.Status {
	case types.ORDER_CONFIRMED:
		m.Event = "order.confirmed"
		m.Subject = fmt.Sprintf("Pedido #%s confirmado", order.OrderNumber)
		m.Text = fmt.Sprintf("Olá %s, recebemos seu PIX de %s. Muito obrigado pelo presente!", order.BuyerName, FormatBRL(order.Total))
		m.HTML = fmt.Sprintf("Olá <b>%s</b>, recebemos seu PIX de <b>%s</b>.\nMuito obrigado pelo presente!", e(order.BuyerName), FormatBRL(order.Total))
	default:
		reason := types.DEFAULT_REJECT_REASON
		if order.Notes != nil {
			reason = *order.Notes
		}
		m.Event = "order.cancelled"
		m.Subject = fmt.Sprintf("Pedido #%s cancelado", order.OrderNumber)
		m.Text = fmt.Sprintf("Olá %s, o pedido %s foi cancelado: %s", order.BuyerName, order.OrderNumber, reason)
		m.HTML = fmt.Sprintf("Olá <b>%s</b>, o pedido <code>%s</code> foi cancelado.\nMotivo: %s", e(order.BuyerName), e(order.OrderNumber), e(reason))
		m.Data["reason"] = reason
	}
	return m
}

func RSVPMessage(entry *models.RSVP, total int64) Message {
	e := html.EscapeString
	phone := "Não informado"
	if entry.Phone != nil {
		phone = *entry.Phone
	}
	message := ""
	if entry.Message != nil {
		message = *entry.Message
	}
	text := fmt.Sprintf("🎉 NOVA CONFIRMAÇÃO RSVP!\n\n👤 %s\n📧 %s\n📱 %s\n", entry.Name, entry.Email, phone)
	markup := fmt.Sprintf("🎉 <b>NOVA CONFIRMAÇÃO RSVP!</b>\n\n👤 <b>%s</b>\n📧 %s\n📱 %s\n", e(entry.Name), e(entry.Email), e(phone))
	if message != "" {
		text += fmt.Sprintf("💬 %s\n", message)
		markup += fmt.Sprintf("💬 <i>%s</i>\n", e(message))
	}
	text += fmt.Sprintf("\n📊 Total de confirmações: %d", total)
	markup += fmt.Sprintf("\n📊 Total de confirmações: <b>%d</b>", total)
	return Message{
		Event:   "rsvp.created",
		Subject: fmt.Sprintf("Nova confirmação de presença: %s", entry.Name),
		Text:    text,
		HTML:    markup,
		Data: types.JSONB{
			"name":  entry.Name,
			"email": entry.Email,
			"phone": entry.Phone,
			"total": total,
		},
	}
}

func ContactMessage(body *types.ContactRequestBody, at time.Time) Message {
	e := html.EscapeString
	return Message{
		Event:   "contact.message",
		Subject: fmt.Sprintf("Nova mensagem do site de %s", body.Name),
		Text:    fmt.Sprintf("Nova mensagem do site de casamento:\n\nNome: %s\nE-mail: %s\nMensagem: %s", body.Name, body.Email, body.Message),
		HTML:    fmt.Sprintf("✉️ <b>Nova mensagem do site</b>\n\nNome: %s\nE-mail: %s\nMensagem: %s", e(body.Name), e(body.Email), e(body.Message)),
		Data: types.JSONB{
			"name":    body.Name,
			"email":   body.Email,
			"message": body.Message,
			"sentAt":  at.Format(time.RFC3339),
		},
	}
}
