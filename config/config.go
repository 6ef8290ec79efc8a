package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string
	// CORS allow list, parsed once from CORS_ORIGIN
	CORSOrigins []string
	// Proxies allowed to set X-Forwarded-For; empty trusts none
	TrustedProxies []string
	// Header set by the hosting platform with the client IP (e.g. CF-Connecting-IP)
	TrustedPlatform string
	// SMTP Configuration (Namecheap Private Email by default)
	SMTPHost          string
	SMTPPort          int
	SMTPSecure        bool   // true = implicit TLS (465), false = STARTTLS (587)
	SMTPUsername      string
	SMTPPassword      string
	SMTPTLSServerName string // SNI name, needed on shared-hosting relays
	SMTPHeloName      string
	SMTPTimeoutSecs   int
	SMTPVerify        bool // Probe the relay before sending on every request
	FromEmail         string
	ToEmail           string
	// DKIM (optional)
	DKIMSelector   string
	DKIMKeyPath    string
	DKIMPrivateKey string
	DKIMDomain     string
	// Branding
	BrandName   string
	BrandURL    string
	BrandDomain string
	LogoCID     string
	LogoPath    string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitContactThreshold int
}

func LoadConfig() (*Config, error) {
	// Only effective locally; on the hosting platform the file is absent
	_ = godotenv.Load()

	smtpUser := getEnv("SMTP_USER", "")
	smtpHost := getEnv("SMTP_HOST", "mail.privateemail.com")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", ""),
		CORSOrigins: ParseOrigins(getEnv("CORS_ORIGIN", "https://truck-zone.ca")),
		// Client IP resolution for rate limiting
		TrustedProxies:  ParseOrigins(getEnv("TRUSTED_PROXIES", "")),
		TrustedPlatform: strings.TrimSpace(getEnv("TRUSTED_PLATFORM", "")),
		// SMTP Configuration
		SMTPHost:          smtpHost,
		SMTPPort:          getEnvInt("SMTP_PORT", 465),
		SMTPSecure:        getEnvBool("SMTP_SECURE", true),
		SMTPUsername:      smtpUser,
		SMTPPassword:      getEnv("SMTP_PASS", ""),
		SMTPTLSServerName: getEnv("SMTP_TLS_SERVERNAME", smtpHost),
		SMTPHeloName:      getEnv("SMTP_HELO", "localhost"),
		SMTPTimeoutSecs:   getEnvInt("SMTP_TIMEOUT_SECONDS", 30),
		SMTPVerify:        getEnvBool("SMTP_VERIFY", true),
		FromEmail:         getEnv("FROM_EMAIL", smtpUser),
		ToEmail:           getEnv("TO_EMAIL", smtpUser),
		// DKIM
		DKIMSelector:   strings.TrimSpace(getEnv("SMTP_DKIM_SELECTOR", "")),
		DKIMKeyPath:    strings.TrimSpace(getEnv("SMTP_DKIM_KEY_PATH", "")),
		DKIMPrivateKey: getEnv("SMTP_DKIM_PRIVATE_KEY", ""),
		DKIMDomain:     strings.TrimSpace(getEnv("SMTP_DKIM_DOMAIN", "")),
		// Branding
		BrandName:   getEnv("BRAND_NAME", "Truck Zone"),
		BrandURL:    strings.TrimRight(getEnv("BRAND_URL", "https://truck-zone.ca"), "/"),
		BrandDomain: getEnv("BRAND_DOMAIN", "truck-zone.ca"),
		LogoCID:     getEnv("LOGO_CID", "truckzone-logo"),
		LogoPath:    getEnv("LOGO_PATH", "api/assets/logo-email.png"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 10), // 0 disables
	}

	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		log.Println("WARNING: SMTP_USER/SMTP_PASS missing. Contact submissions will fail with 500.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// ParseOrigins splits a comma-separated list (origins, proxy CIDRs), trimming
// entries and dropping empty ones.
func ParseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getEnv treats an empty variable as unset
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
