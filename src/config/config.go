package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ApiEnv          string `env:"API_ENV" envDefault:"local"`
	Port            string `env:"PORT" envDefault:"9090"`
	AppHost         string `env:"APP_HOST" envDefault:"http://localhost:3000"`
	MaintenanceMode bool   `env:"MAINTENANCE_MODE" envDefault:"false"`

	StoreDriver      string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseHost     string `env:"DATABASE_HOST" envDefault:"localhost"`
	DatabasePort     string `env:"DATABASE_PORT" envDefault:"5432"`
	DatabaseSSLMode  string `env:"DATABASE_SSLMODE" envDefault:"disable"`
	DatabaseTimezone string `env:"DATABASE_TIMEZONE" envDefault:"America/Sao_Paulo"`
	DatabaseUser     string `env:"DATABASE_USER" envDefault:"postgres"`
	DatabasePassword string `env:"DATABASE_PASSWORD"`
	DatabaseName     string `env:"DATABASE_NAME" envDefault:"wedding"`

	RedisHost string `env:"REDIS_HOST"`

	AdminPassword         string        `env:"ADMIN_PASSWORD"`
	JWTSecret             string        `env:"JWT_SECRET"`
	AdminSessionTTL       time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"24h"`
	AdminLoginMaxAttempts int64         `env:"ADMIN_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	AdminLoginWindow      time.Duration `env:"ADMIN_LOGIN_WINDOW" envDefault:"15m"`

	PixKey          string `env:"PIX_KEY"`
	PixMerchantName string `env:"PIX_MERCHANT_NAME" envDefault:"Casamento"`
	PixMerchantCity string `env:"PIX_MERCHANT_CITY" envDefault:"Goiania"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
	TelegramAPIHost  string `env:"TELEGRAM_API_HOST" envDefault:"https://api.telegram.org"`
	AdminEmail       string `env:"ADMIN_EMAIL"`
	MailDriver       string `env:"MAIL_DRIVER"`
	MailFrom         string `env:"MAIL_FROM" envDefault:"noreply@casamento.local"`
	MailFromName     string `env:"MAIL_FROM_NAME" envDefault:"Casamento"`
	SMTPHost         string `env:"SMTP_HOST"`
	SMTPPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername     string `env:"SMTP_USERNAME"`
	SMTPPassword     string `env:"SMTP_PASSWORD"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFrom       string `env:"TWILIO_WHATSAPP_FROM"`
	TwilioTo         string `env:"TWILIO_WHATSAPP_TO"`
	TwilioAPIHost    string `env:"TWILIO_API_HOST" envDefault:"https://api.twilio.com"`

	OutboxInterval    time.Duration `env:"OUTBOX_INTERVAL" envDefault:"30s"`
	OutboxMaxAttempts int           `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"5"`
	OutboxBatchSize   int           `env:"OUTBOX_BATCH_SIZE" envDefault:"20"`
	OutboxBackoff     time.Duration `env:"OUTBOX_BACKOFF" envDefault:"30s"`

	GalleryBucket    string `env:"S3_GALLERY_BUCKET" envDefault:"gallery"`
	GalleryPublicURL string `env:"S3_PUBLIC_URL"`
	GalleryMaxBytes  int64  `env:"GALLERY_MAX_BYTES" envDefault:"10485760"`

	OtelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"wedding-api"`
}

var (
	cfg *Config
	mu  sync.Mutex
)

// Get parses the environment on first use and caches the result.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return cfg
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		log.Printf("Error parsing environment: %s\n", err.Error())
	}
	cfg = &c
	return cfg
}

// Set replaces the cached configuration.
func Set(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

func GetDSN() string {
	c := Get()
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", c.DatabaseHost, c.DatabaseUser, c.DatabasePassword, c.DatabaseName, c.DatabasePort, c.DatabaseSSLMode, c.DatabaseTimezone)
	return dsn
}

func IsLocal() bool {
	return Get().ApiEnv == "local"
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
