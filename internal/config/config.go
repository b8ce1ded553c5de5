// Package config loads the process environment into a typed, validated
// settings snapshot. Missing a variable with no declared default is a
// startup-time fatal error surfaced from Load.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Config is the full configuration surface of both binaries.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Persistence (DynamoDB table names; region comes from the AWS SDK chain).
	UsersTable    string `env:"USERS_TABLE,required"`
	ProductsTable string `env:"PRODUCTS_TABLE,required"`
	OrdersTable   string `env:"ORDERS_TABLE,required"`

	// Cache.
	RedisAddr     string `env:"REDIS_ADDR,required"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Auth.
	JWTSecret  string        `env:"JWT_SECRET,required" validate:"min=16"`
	JWTExpiry  time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12" validate:"min=4,max=31"`

	// Request pipeline.
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"20" validate:"gt=0"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"40" validate:"min=1"`
	DocsEnabled    bool     `env:"DOCS_ENABLED" envDefault:"false"`

	// Async order pipeline.
	OrdersQueueURL  string `env:"ORDERS_QUEUE_URL"`
	MetricNamespace string `env:"METRIC_NAMESPACE" envDefault:"NimbleShop"`

	// Object storage for product images.
	MediaBucket string `env:"MEDIA_BUCKET"`

	// Payment provider. Charging is handled by the provider's hosted flow;
	// the API only carries the keys.
	PaymentSecretKey     string `env:"PAYMENT_SECRET_KEY"`
	PaymentWebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`

	// Outbound mail (order confirmations from the worker).
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"orders@nimbleshop.dev"`

	// Observability.
	SentryDSN      string `env:"SENTRY_DSN"`
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingAddr    string `env:"TRACING_ADDR" envDefault:"localhost:4317"`

	// Vendor tool credentials (static, pre-issued).
	JiraBaseURL       string `env:"JIRA_BASE_URL"`
	JiraEmail         string `env:"JIRA_EMAIL"`
	JiraAPIToken      string `env:"JIRA_API_TOKEN"`
	ConfluenceBaseURL string `env:"CONFLUENCE_BASE_URL"`
	ConfluenceEmail   string `env:"CONFLUENCE_EMAIL"`
	ConfluenceToken   string `env:"CONFLUENCE_API_TOKEN"`
	GitHubToken       string `env:"GITHUB_TOKEN"`
}

// Load reads and validates the environment. It returns an error naming the
// first offending variable; callers are expected to treat that as fatal.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := validatorv10.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
