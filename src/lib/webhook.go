package lib

import (
	"context"
	"fmt"
	"strings"
	"time"
	"wedding/src/config"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var httpClient *resty.Client

func GetHTTPClient() *resty.Client {
	if httpClient != nil {
		return httpClient
	}
	httpClient = resty.New().
		SetTimeout(10*time.Second).
		SetHeader("User-Agent", config.Get().ServiceName)
	return httpClient
}

// NewHTTPClient replaces the outbound client, mostly for tests.
func NewHTTPClient(c *resty.Client) *resty.Client {
	httpClient = c
	return httpClient
}

func SendTelegramMessage(ctx context.Context, token, chatID, html string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(config.Get().TelegramAPIHost, "/"), token)
	res, err := GetHTTPClient().R().
		SetContext(ctx).
		SetBody(map[string]any{
			"chat_id":                  chatID,
			"text":                     html,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}).
		Post(url)
	if err != nil {
		return err
	}
	body := res.Body()
	if !gjson.GetBytes(body, "ok").Bool() {
		return fmt.Errorf("telegram rejected message (%d): %s", res.StatusCode(), gjson.GetBytes(body, "description").String())
	}
	return nil
}

func PostWebhook(ctx context.Context, url string, payload any) error {
	res, err := GetHTTPClient().R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("webhook %s responded with status %d", url, res.StatusCode())
	}
	return nil
}

type WhatsAppMessage struct {
	AccountSID string
	AuthToken  string
	From       string
	To         string
	Body       string
}

// SendWhatsAppMessage posts a message through the Twilio Messages API.
func SendWhatsAppMessage(ctx context.Context, msg WhatsAppMessage) error {
	url := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(config.Get().TwilioAPIHost, "/"), msg.AccountSID)
	res, err := GetHTTPClient().R().
		SetContext(ctx).
		SetBasicAuth(msg.AccountSID, msg.AuthToken).
		SetFormData(map[string]string{
			"From": "whatsapp:" + msg.From,
			"To":   "whatsapp:" + msg.To,
			"Body": msg.Body,
		}).
		Post(url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("twilio responded with status %d: %s", res.StatusCode(), gjson.GetBytes(res.Body(), "message").String())
	}
	return nil
}
