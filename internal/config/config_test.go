package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
app:
  port: 9090
  gin_mode: test
  frontend_url: https://app.example.com

database:
  dsn: "host=db user=u password=p dbname=d port=5432"

redis:
  addr: "redis:6379"
  password: "secret"
  db: 2

jwt:
  secret: "access-secret"
  refresh_secret: "refresh-secret"
  issuer: "guardianauth"
  access_ttl: 15m
  refresh_ttl: 168h

otp:
  length: 6
  ttl: 10m

tokens:
  verification_ttl: 24h
  reset_ttl: 10m

smtp:
  host: mail.example.com
  port: 587
  from: "no-reply@example.com"

twilio:
  account_sid: "AC123"
  auth_token: "tok"
  from_number: "+15550000000"

casbin:
  model_path: config/rbac_model.conf
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFrom(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh TTL, got %v", cfg.RefreshTTL)
	}
	if cfg.VerificationTTL != 24*time.Hour || cfg.ResetTTL != 10*time.Minute {
		t.Errorf("unexpected token TTLs %v %v", cfg.VerificationTTL, cfg.ResetTTL)
	}
	if cfg.JWTSecret != "access-secret" || cfg.JWTRefreshSecret != "refresh-secret" {
		t.Error("expected both JWT secrets loaded")
	}
	if cfg.OTPLength != 6 || cfg.OTPTTL != 10*time.Minute {
		t.Errorf("unexpected OTP settings %d %v", cfg.OTPLength, cfg.OTPTTL)
	}
	if cfg.TwilioSID != "AC123" {
		t.Errorf("unexpected twilio sid %s", cfg.TwilioSID)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-access")
	t.Setenv("REDIS_ADDR", "override:6379")

	cfg, err := LoadFrom(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.JWTSecret != "env-access" {
		t.Errorf("expected env to win for JWT secret, got %s", cfg.JWTSecret)
	}
	if cfg.RedisAddr != "override:6379" {
		t.Errorf("expected env to win for redis addr, got %s", cfg.RedisAddr)
	}
}

func TestLoadFromBadDuration(t *testing.T) {
	bad := strings.Replace(sampleConfig, "access_ttl: 15m", "access_ttl: soon", 1)
	if _, err := LoadFrom(writeConfig(t, bad)); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
