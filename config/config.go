package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Tripay     TripayConfig
	Fonnte     FonnteConfig
	Resend     ResendConfig
	Webiny     WebinyConfig
	Referral   ReferralConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	BaseURL      string // public base URL, used to build webhook callbacks
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// TripayConfig for QRIS checkout via the Tripay payment gateway.
type TripayConfig struct {
	BaseURL     string
	APIKey      string
	PrivateKey  string // signs payloads and verifies callback signatures
	MerchantRef string
}

type FonnteConfig struct {
	BaseURL string
	Token   string
}

type ResendConfig struct {
	BaseURL string
	APIKey  string
	From    string
}

// WebinyConfig for the headless CMS the page builder proxies to.
type WebinyConfig struct {
	GraphQLURL string
	APIToken   string
}

type ReferralConfig struct {
	CookieName   string
	CookieMaxAge time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("ENV", "development"),
			BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "redlink:redlink@tcp(localhost:3306)/redlink?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "redlink",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Tripay: TripayConfig{
			BaseURL:     getEnv("TRIPAY_BASE_URL", "https://tripay.co.id/api"),
			APIKey:      os.Getenv("TRIPAY_API_KEY"),
			PrivateKey:  os.Getenv("TRIPAY_PRIVATE_KEY"),
			MerchantRef: getEnv("TRIPAY_MERCHANT_REF", "redlink"),
		},
		Fonnte: FonnteConfig{
			BaseURL: getEnv("FONNTE_BASE_URL", "https://api.fonnte.com"),
			Token:   os.Getenv("FONNTE_TOKEN"),
		},
		Resend: ResendConfig{
			BaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			APIKey:  os.Getenv("RESEND_API_KEY"),
			From:    getEnv("RESEND_FROM", "RedLink <noreply@redlynk.id>"),
		},
		Webiny: WebinyConfig{
			GraphQLURL: os.Getenv("WEBINY_API_URL"),
			APIToken:   os.Getenv("WEBINY_API_TOKEN"),
		},
		Referral: ReferralConfig{
			CookieName:   "referral_code",
			CookieMaxAge: 30 * 24 * time.Hour,
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
