package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "https://truck-zone.ca", []string{"https://truck-zone.ca"}},
		{"trims and drops empties", " https://a.ca , ,https://b.ca,", []string{"https://a.ca", "https://b.ca"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrigins(tt.raw))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SMTP_USER", "info@truck-zone.ca")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("CORS_ORIGIN", "https://truck-zone.ca,https://www.truck-zone.ca")
	t.Setenv("SMTP_SECURE", "false")
	t.Setenv("SMTP_PORT", "587")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://truck-zone.ca", "https://www.truck-zone.ca"}, cfg.CORSOrigins)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.SMTPSecure)
	// Sender and inbox fall back to the SMTP login
	assert.Equal(t, "info@truck-zone.ca", cfg.FromEmail)
	assert.Equal(t, "info@truck-zone.ca", cfg.ToEmail)
	assert.Equal(t, "truckzone-logo", cfg.LogoCID)
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("SMTP_VERIFY", "maybe")
	t.Setenv("SMTP_HOST", "mail.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 465, cfg.SMTPPort)
	assert.True(t, cfg.SMTPVerify)
	assert.Equal(t, "mail.example.com", cfg.SMTPTLSServerName)
}

func TestLoadConfigEmptyValuesFallBack(t *testing.T) {
	t.Setenv("SMTP_USER", "info@truck-zone.ca")
	t.Setenv("FROM_EMAIL", "")
	t.Setenv("TO_EMAIL", "")
	t.Setenv("BRAND_NAME", "")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("SMTP_TLS_SERVERNAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info@truck-zone.ca", cfg.FromEmail)
	assert.Equal(t, "info@truck-zone.ca", cfg.ToEmail)
	assert.Equal(t, "Truck Zone", cfg.BrandName)
	assert.Equal(t, []string{"https://truck-zone.ca"}, cfg.CORSOrigins)
	assert.Equal(t, cfg.SMTPHost, cfg.SMTPTLSServerName)
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")
	t.Setenv("TRUSTED_PLATFORM", "CF-Connecting-IP")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
	assert.Equal(t, "CF-Connecting-IP", cfg.TrustedPlatform)
}
