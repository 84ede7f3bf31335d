package lib

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"wedding/src/config"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSendTelegramMessage(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		if r.URL.Path == "/botgood/sendMessage" {
			w.Write([]byte(`{"ok":true,"result":{}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()
	config.Set(&config.Config{TelegramAPIHost: srv.URL})
	defer config.Set(nil)
	NewHTTPClient(resty.New())
	defer NewHTTPClient(nil)

	err := SendTelegramMessage(context.Background(), "good", "42", "<b>Novo pedido</b>")
	require.NoError(t, err)
	assert.Equal(t, "42", gjson.Get(received, "chat_id").String())
	assert.Equal(t, "HTML", gjson.Get(received, "parse_mode").String())

	err = SendTelegramMessage(context.Background(), "bad", "42", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestPostWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	NewHTTPClient(resty.New())
	defer NewHTTPClient(nil)

	assert.NoError(t, PostWebhook(context.Background(), srv.URL+"/ok", map[string]any{"type": "order"}))
	assert.Error(t, PostWebhook(context.Background(), srv.URL+"/fail", map[string]any{"type": "order"}))
}

func TestSendWhatsAppMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155238886", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:+5562999990000", r.PostForm.Get("To"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()
	config.Set(&config.Config{TwilioAPIHost: srv.URL})
	defer config.Set(nil)
	NewHTTPClient(resty.New())
	defer NewHTTPClient(nil)

	err := SendWhatsAppMessage(context.Background(), WhatsAppMessage{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+14155238886",
		To:         "+5562999990000",
		Body:       "Nova confirmação",
	})
	assert.NoError(t, err)
}
