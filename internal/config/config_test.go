package config_test

import (
	"strings"
	"testing"

	"github.com/example/automail-service/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Env != "development" {
		t.Fatalf("unexpected env: %q", cfg.App.Env)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.App.Port)
	}
	if cfg.App.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.App.LogLevel)
	}
	if cfg.Sender.Email != "system@company.com" || cfg.Sender.Name != "System Administrator" {
		t.Fatalf("unexpected sender defaults: %+v", cfg.Sender)
	}
	if cfg.Mail.Backend != "mock" {
		t.Fatalf("unexpected backend: %q", cfg.Mail.Backend)
	}
	if cfg.Mail.SMTP.Host != "smtp.gmail.com" || cfg.Mail.SMTP.Port != 587 {
		t.Fatalf("unexpected smtp defaults: %+v", cfg.Mail.SMTP)
	}
	if !cfg.Mail.SMTP.StartTLS {
		t.Fatalf("expected starttls to default on")
	}
	if cfg.Dispatch.MaxInFlight != 8 {
		t.Fatalf("unexpected max in flight: %d", cfg.Dispatch.MaxInFlight)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MAIL_BACKEND", "SMTP")
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_TLS", "false")
	t.Setenv("SENDER_EMAIL", "ops@company.com")
	t.Setenv("DISPATCH_MAX_INFLIGHT", "2")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Env != "production" || cfg.App.Port != 9090 {
		t.Fatalf("unexpected app config: %+v", cfg.App)
	}
	if cfg.Mail.Backend != "smtp" {
		t.Fatalf("expected backend lowercased, got %q", cfg.Mail.Backend)
	}
	if cfg.Mail.SMTP.Host != "mail.internal" || cfg.Mail.SMTP.Port != 2525 {
		t.Fatalf("unexpected smtp config: %+v", cfg.Mail.SMTP)
	}
	if cfg.Mail.SMTP.StartTLS {
		t.Fatalf("expected starttls disabled")
	}
	if cfg.Sender.Email != "ops@company.com" {
		t.Fatalf("unexpected sender email: %q", cfg.Sender.Email)
	}
	if cfg.Dispatch.MaxInFlight != 2 {
		t.Fatalf("unexpected max in flight: %d", cfg.Dispatch.MaxInFlight)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		fragment string
	}{
		{name: "invalid backend", key: "MAIL_BACKEND", value: "pigeon", fragment: "MAIL_BACKEND"},
		{name: "non numeric port", key: "APP_PORT", value: "eighty", fragment: "APP_PORT"},
		{name: "bad boolean", key: "SMTP_TLS", value: "maybe", fragment: "SMTP_TLS"},
		{name: "zero in flight", key: "DISPATCH_MAX_INFLIGHT", value: "0", fragment: "DISPATCH_MAX_INFLIGHT"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			} else if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("expected %q in error, got %v", tc.fragment, err)
			}
		})
	}
}
