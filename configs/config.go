package config

import (
	"os"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Ayrshare struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Stripe struct {
	BaseURL       string
	SecretKey     string
	WebhookSecret string
	PriceBasic    string
	PricePro      string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	R2                 R2
	Ayrshare           Ayrshare
	Stripe             Stripe
	SecretKey          string
	CookieName         string
	DevBypassEmails    []string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", ""),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Ayrshare: Ayrshare{
			BaseURL: getEnv("AYRSHARE_BASE_URL", "https://app.ayrshare.com/api"),
			APIKey:  getEnv("AYRSHARE_API_KEY", ""),
			Timeout: 30 * time.Second,
		},
		Stripe: Stripe{
			BaseURL:       getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceBasic:    getEnv("STRIPE_PRICE_BASIC", ""),
			PricePro:      getEnv("STRIPE_PRICE_PRO", ""),
		},
		SecretKey:       getEnv("SECRET_KEY", ""),
		CookieName:      getEnv("COOKIE_NAME", "woozy_session"),
		DevBypassEmails: splitEnv("DEV_BYPASS_EMAILS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var values []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
