// Package config loads the server configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on slim images

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	Timezone      string `envconfig:"TIMEZONE" default:"America/Bogota"`

	SiteName             string        `envconfig:"SITE_NAME" default:"ComparaParqueaderos.com"`
	WhatsappBaseURL      string        `envconfig:"WHATSAPP_BASE_URL" default:"https://wa.me"`
	BookingInsertTimeout time.Duration `envconfig:"BOOKING_INSERT_TIMEOUT" default:"5s"`

	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPIdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// Comma-separated; see AllowedOrigins.
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	OfferCacheTTL time.Duration `envconfig:"OFFER_CACHE_TTL" default:"5m"`

	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"booking-events"`

	TwilioAccountSID  string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `envconfig:"TWILIO_FROM_NUMBER"`
	SendGridAPIKey    string `envconfig:"SENDGRID_API_KEY"`
	SendGridFromEmail string `envconfig:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `envconfig:"SENDGRID_FROM_NAME"`

	DigestEmail string `envconfig:"DIGEST_EMAIL"`
	DigestCron  string `envconfig:"DIGEST_CRON" default:"0 8 * * *"`
}

// Load reads .env (if present) and the environment. Variables already set
// in the environment win over .env.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	var missing []string
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.BookingInsertTimeout <= 0 {
		return Config{}, fmt.Errorf("config: BOOKING_INSERT_TIMEOUT must be positive, got %s", cfg.BookingInsertTimeout)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("config: TIMEZONE: %w", err)
	}
	return cfg, nil
}

func (c Config) AllowedOrigins() []string {
	return splitCSV(c.CORSOrigins)
}

func (c Config) Brokers() []string {
	return splitCSV(c.KafkaBrokers)
}

func (c Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func (c Config) DigestEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != "" && c.DigestEmail != ""
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
